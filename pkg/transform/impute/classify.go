package impute

import "github.com/wdm0006/imputer/pkg/frame"

// ColumnKind is the classification a column gets before imputation.
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Categorical
)

func (k ColumnKind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "numeric"
}

// Classify returns Numeric when every non-missing cell is an int or float,
// Categorical otherwise. A column without any non-missing cell falls back to
// its declared kind: string, bool and time columns are Categorical, the rest
// Numeric.
func Classify(col *frame.Column, m Marker) ColumnKind {
	seen := false
	for i := 0; i < col.Len(); i++ {
		v := col.Get(i)
		if m.IsMissing(v) {
			continue
		}
		if !v.IsNumeric() {
			return Categorical
		}
		seen = true
	}
	if !seen {
		return ClassifyKind(col.Kind())
	}
	return Numeric
}

// ClassifyKind maps a declared column kind onto its imputation class.
func ClassifyKind(k frame.Kind) ColumnKind {
	switch k {
	case frame.KindString, frame.KindBool, frame.KindTime:
		return Categorical
	}
	return Numeric
}

// present collects the non-missing cells of col in row order.
func present(col *frame.Column, m Marker) []frame.Value {
	out := make([]frame.Value, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if v := col.Get(i); !m.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}
