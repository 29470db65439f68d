package jsonlio

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStreamReadWriteJSONL(t *testing.T) {
	sr, err := NewStreamReader(writeTemp(t, "sample.jsonl", sample), ReaderOptions{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sr.Close() }()
	out := filepath.Join(t.TempDir(), "out.jsonl")
	sw, err := NewStreamWriter(out)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for {
		fr, err := sr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		total += fr.Rows()
		if err := sw.Write(fr); err != nil {
			t.Fatal(err)
		}
	}
	if err := sw.Close(); err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Fatalf("expected 3 rows, got %d", total)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 || !strings.Contains(lines[1], `"age":null`) {
		t.Fatalf("unexpected output:\n%s", b)
	}
}
