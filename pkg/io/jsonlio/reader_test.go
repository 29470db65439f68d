package jsonlio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wdm0006/imputer/pkg/frame"
)

const sample = `{"age": 25, "name": "ann", "score": 1.5}
{"age": null, "name": "bob"}
{"age": 40, "name": "?", "score": 2, "tags": ["a"]}
`

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestJSONLInferAndRead(t *testing.T) {
	r, err := Open(writeTemp(t, "sample.jsonl", sample), ReaderOptions{SampleRows: 10})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()
	schema, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	names := schema.Names()
	if len(names) != 4 || names[0] != "age" || names[3] != "tags" {
		t.Fatalf("names = %v, want sorted union of keys", names)
	}
	if schema.Columns[0].Type != frame.KindFloat {
		t.Fatalf("age kind = %s, want float because of the null", schema.Columns[0].Type)
	}
	fr, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if fr.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", fr.Rows())
	}
	if v, _ := fr.Cell(1, "age"); !v.IsNaN() {
		t.Fatalf("null should read as NaN, got %s", v)
	}
	if v, _ := fr.Cell(1, "score"); !v.IsNaN() {
		t.Fatalf("absent key should read as NaN, got %s", v)
	}
	if v, _ := fr.Cell(2, "tags"); v != frame.String(`["a"]`) {
		t.Fatalf("nested value = %s", v)
	}
}

func TestKeepNull(t *testing.T) {
	fr, err := Read(writeTemp(t, "sample.jsonl", sample), ReaderOptions{KeepNull: true})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := fr.Cell(1, "age"); !v.IsNull() {
		t.Fatalf("null should stay null, got %s", v)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	in, err := Read(writeTemp(t, "sample.jsonl", sample), ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "out.jsonl.zst")
	if err := WriteAll(out, in); err != nil {
		t.Fatal(err)
	}
	back, err := Read(out, ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !in.Equal(back) {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", in, back)
	}
}
