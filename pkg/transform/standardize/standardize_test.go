package standardize

import (
	"context"
	"math"
	"testing"

	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

func TestTrim(t *testing.T) {
	f := frame.MustNew(
		frame.MustColumn("s", frame.KindString, "  Foo  ", "BAR", nil),
		frame.MustColumn("x", frame.KindFloat, 1.5, math.NaN(), 2),
	)
	if _, err := (&Trim{}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	col, _ := f.ColumnByName("s")
	if v, _ := col.Get(0).Str(); v != "Foo" {
		t.Fatalf("trim failed, got %q", v)
	}
	if !col.IsNull(2) {
		t.Fatal("null cell must stay null")
	}
	x, _ := f.ColumnByName("x")
	if !x.Get(1).IsNaN() {
		t.Fatal("numeric cells must be untouched")
	}
}

func TestAliasesToNaN(t *testing.T) {
	f := frame.MustNew(
		frame.MustColumn("age", frame.KindFloat, 25, -999, 35),
		frame.MustColumn("city", frame.KindString, "Oslo", "n/a", "-"),
	)
	a, err := NewAliases(impute.MissingNaN(), []any{"n/a", "-", -999})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	age, _ := f.ColumnByName("age")
	city, _ := f.ColumnByName("city")
	if !age.Get(1).IsNaN() || age.Get(0).IsNaN() {
		t.Fatalf("age = %v", age.Values())
	}
	if !city.Get(1).IsNaN() || !city.Get(2).IsNaN() {
		t.Fatalf("city = %v", city.Values())
	}
	if v, _ := city.Get(0).Str(); v != "Oslo" {
		t.Fatalf("city[0] = %q", v)
	}

	im, err := impute.New(impute.Config{Strategy: impute.StrategyMedian, Copy: true})
	if err != nil {
		t.Fatal(err)
	}
	out, err := im.FitTransform(f)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out.Cell(1, "age"); !v.Equal(frame.Float(30)) {
		t.Fatalf("imputed age = %v, want 30", v)
	}
}

func TestAliasesLimitedColumns(t *testing.T) {
	f := frame.MustNew(
		frame.MustColumn("a", frame.KindString, "?", "x"),
		frame.MustColumn("b", frame.KindString, "?", "y"),
	)
	a, err := NewAliases(impute.MissingNull(), []any{"?"}, "b")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Cell(0, "a"); !v.Equal(frame.String("?")) {
		t.Fatalf("column a must be untouched, got %v", v)
	}
	if v, _ := f.Cell(0, "b"); !v.IsNull() {
		t.Fatalf("column b alias should be null, got %v", v)
	}

	if _, err := NewAliases(impute.MissingNaN(), []any{struct{}{}}); err == nil {
		t.Fatal("unsupported alias type must be rejected")
	}
}
