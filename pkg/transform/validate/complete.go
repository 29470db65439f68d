// Package validate holds pipeline steps that check a frame without changing it.
package validate

import (
	"context"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

// Complete fails when a checked column still holds missing cells. It is
// meant to run after imputation.
type Complete struct {
	Missing impute.Marker
	// Columns limits the check; empty checks every column.
	Columns []string
}

func (t *Complete) Name() string { return "validate_complete" }

func (t *Complete) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cols := f.Columns()
	if len(t.Columns) > 0 {
		cols = cols[:0:0]
		for _, n := range t.Columns {
			if c, ok := f.ColumnByName(n); ok {
				cols = append(cols, c)
			}
		}
	}
	for _, c := range cols {
		bad := 0
		for i := 0; i < c.Len(); i++ {
			if t.Missing.IsMissing(c.Get(i)) {
				bad++
			}
		}
		if bad > 0 {
			return f, errors.Newf("validate_complete: column %s has %d missing values", c.Name(), bad)
		}
	}
	return f, nil
}
