package standardize

import (
	"context"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

// Aliases rewrites cells equal to one of Values into the missing marker, so
// spellings such as "-", "n/a" or -999 are imputed like the marker itself.
// The frame is modified in place.
type Aliases struct {
	Values  []frame.Value
	Missing impute.Marker
	// Columns limits the rewrite; empty rewrites every column.
	Columns []string
}

// NewAliases converts raw scalars (strings, numbers, bools) into aliases.
func NewAliases(m impute.Marker, values []any, columns ...string) (*Aliases, error) {
	a := &Aliases{Missing: m, Columns: columns}
	for _, x := range values {
		v, err := frame.Of(x)
		if err != nil {
			return nil, errors.NewConfigurationError("missing_aliases", err.Error(), x)
		}
		a.Values = append(a.Values, v)
	}
	return a, nil
}

func (t *Aliases) Name() string { return "missing_aliases" }

func (t *Aliases) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if len(t.Values) == 0 {
		return f, nil
	}
	marker := t.Missing.Value()
	for _, col := range selectColumns(f, t.Columns) {
		for i := 0; i < col.Len(); i++ {
			v := col.Get(i)
			for _, a := range t.Values {
				if v.Equal(a) {
					col.Set(i, marker)
					break
				}
			}
		}
	}
	return f, nil
}

func selectColumns(f *frame.Frame, names []string) []*frame.Column {
	if len(names) == 0 {
		return f.Columns()
	}
	out := make([]*frame.Column, 0, len(names))
	for _, n := range names {
		if c, ok := f.ColumnByName(n); ok {
			out = append(out, c)
		}
	}
	return out
}
