package ioutils

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTripCodecs(t *testing.T) {
	dir := t.TempDir()
	payload := "a,b\n1,2\n3,\n"
	for _, name := range []string{"plain.csv", "data.csv.gz", "data.csv.zst", "data.csv.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			w, err := CreateMaybeCompressed(path)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := io.WriteString(w, payload); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			r, err := OpenMaybeCompressed(path)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != payload {
				t.Fatalf("got %q, want %q", got, payload)
			}
		})
	}
}

func TestSniffWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.zst")
	w, err := CreateMaybeCompressed(src)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.WriteString(w, "hello")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	renamed := filepath.Join(dir, "data.bin")
	if err := os.Rename(src, renamed); err != nil {
		t.Fatal(err)
	}
	r, err := OpenMaybeCompressed(renamed)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, _ := io.ReadAll(r)
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestBaseExt(t *testing.T) {
	tests := map[string]string{
		"x.csv":       ".csv",
		"x.CSV.GZ":    ".csv",
		"x.jsonl.zst": ".jsonl",
		"x.parquet":   ".parquet",
		"x.lz4":       "",
	}
	for in, want := range tests {
		if got := BaseExt(in); got != want {
			t.Fatalf("BaseExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseS3(t *testing.T) {
	loc, ok, err := ParseS3("s3://bucket/dir/data.csv.gz")
	if err != nil || !ok {
		t.Fatalf("ParseS3: ok=%v err=%v", ok, err)
	}
	if loc.Bucket != "bucket" || loc.Key != "dir/data.csv.gz" {
		t.Fatalf("unexpected location %+v", loc)
	}
	if CodecFromPath("s3://bucket/dir/data.csv.gz") != Gzip || BaseExt("s3://b/k.csv.gz") != ".csv" {
		t.Fatal("object keys should pick codec and extension like files")
	}

	if _, ok, err := ParseS3("/tmp/data.csv"); ok || err != nil {
		t.Fatalf("local path: ok=%v err=%v", ok, err)
	}
	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		if _, _, err := ParseS3(bad); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
		if _, err := OpenMaybeCompressed(bad); err == nil {
			t.Errorf("open %q should fail", bad)
		}
	}
}
