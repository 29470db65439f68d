package validate

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

func TestComplete(t *testing.T) {
	f := frame.MustNew(
		frame.MustColumn("x", frame.KindFloat, 1, 2),
		frame.MustColumn("s", frame.KindString, "a", math.NaN()),
	)
	check := &Complete{Missing: impute.MissingNaN()}
	_, err := check.Apply(context.Background(), f)
	if err == nil || !strings.Contains(err.Error(), "column s has 1 missing values") {
		t.Fatalf("unexpected error: %v", err)
	}

	check.Columns = []string{"x", "absent"}
	if _, err := check.Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
}

func TestCompleteAfterImputation(t *testing.T) {
	f := frame.MustNew(
		frame.MustColumn("x", frame.KindFloat, 1, math.NaN(), 3),
		frame.MustColumn("s", frame.KindString, "a", math.NaN(), "b"),
	)
	im, err := impute.New(impute.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	p := frame.NewPipeline().Add(im).Add(&Complete{Missing: impute.MissingNaN(), Columns: []string{"x"}})
	out, err := p.Fit(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out.Cell(1, "x"); !v.Equal(frame.Float(2)) {
		t.Fatalf("x[1] = %v, want 2", v)
	}

	// the categorical column was skipped and still has its gap
	strict := frame.NewPipeline().Add(im).Add(&Complete{Missing: impute.MissingNaN()})
	if _, err := strict.Run(context.Background(), f); err == nil {
		t.Fatal("expected the skipped column to fail the check")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&Complete{}).Apply(ctx, out); err == nil {
		t.Fatal("expected context error")
	}
}
