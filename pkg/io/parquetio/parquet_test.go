package parquetio

import (
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/wdm0006/imputer/pkg/frame"
)

func TestParquetRoundTrip(t *testing.T) {
	nan := math.NaN()
	in := frame.MustNew(
		frame.MustColumn("age", frame.KindFloat, 25.0, nan, 35.0, "?"),
		frame.MustColumn("count", frame.KindInt, 1, 2, 3, 4),
		frame.MustColumn("name", frame.KindString, "a", nan, "c", "d"),
	)
	path := filepath.Join(t.TempDir(), "people.parquet")
	if err := WriteAll(path, in); err != nil {
		t.Fatal(err)
	}

	r, err := OpenReader(path, ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()
	if r.NumRows() != 4 {
		t.Fatalf("NumRows = %d, want 4", r.NumRows())
	}
	names := r.Schema().Names()
	if len(names) != 3 || names[0] != "age" || names[2] != "name" {
		t.Fatalf("names = %v", names)
	}
	out, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 4 {
		t.Fatalf("rows = %d, want 4", out.Rows())
	}
	if v, _ := out.Cell(1, "age"); !v.IsNaN() {
		t.Fatalf("null should read as NaN, got %s", v)
	}
	if v, _ := out.Cell(3, "age"); !v.IsNaN() {
		t.Fatalf("foreign marker should be stored as null, got %s", v)
	}
	if v, _ := out.Cell(2, "count"); v != frame.Int(3) {
		t.Fatalf("count[2] = %s", v)
	}
	if v, _ := out.Cell(1, "name"); !v.IsNaN() {
		t.Fatalf("null string should read as NaN, got %s", v)
	}
	if v, _ := out.Cell(3, "name"); v != frame.String("d") {
		t.Fatalf("name[3] = %s", v)
	}
}

func TestParquetStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.parquet")
	sw, err := NewStreamWriter(path, makeFrame(0).Schema())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := sw.Write(makeFrame(10)); err != nil {
			t.Fatal(err)
		}
	}
	if err := sw.Close(); err != nil {
		t.Fatal(err)
	}

	sr, err := NewStreamReader(path, ReaderOptions{}, 7)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sr.Close() }()
	total := 0
	for {
		f, err := sr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if f.Rows() > 7 {
			t.Fatalf("chunk of %d rows exceeds chunk size", f.Rows())
		}
		total += f.Rows()
	}
	if total != 30 {
		t.Fatalf("total rows = %d, want 30", total)
	}
}

func TestParquetKeepNull(t *testing.T) {
	in := frame.MustNew(
		frame.MustColumn("x", frame.KindInt, 1, nil, 3),
	)
	path := filepath.Join(t.TempDir(), "nulls.parquet")
	if err := WriteAll(path, in); err != nil {
		t.Fatal(err)
	}
	r, err := OpenReader(path, ReaderOptions{KeepNull: true})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()
	out, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out.Cell(1, "x"); !v.IsNull() {
		t.Fatalf("null should read as Null with KeepNull, got %s", v)
	}
	if col, _ := out.ColumnByName("x"); col.Kind() != frame.KindInt {
		t.Fatalf("kind = %s, want int", col.Kind())
	}
}
