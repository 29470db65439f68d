// Package standardize holds pipeline steps that normalize cells before
// imputation so that equal values count as equal.
package standardize

import (
	"context"
	"strings"

	"github.com/wdm0006/imputer/pkg/frame"
)

// Trim strips surrounding whitespace from string cells.
type Trim struct {
	// Columns limits the step; empty trims every column.
	Columns []string
}

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	for _, col := range selectColumns(f, t.Columns) {
		for i := 0; i < col.Len(); i++ {
			if s, ok := col.Get(i).Str(); ok {
				col.Set(i, frame.String(strings.TrimSpace(s)))
			}
		}
	}
	return f, nil
}
