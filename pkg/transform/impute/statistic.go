package impute

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
)

// DefaultCategoricalFill is the constant used for categorical columns when
// no fill value is configured.
const DefaultCategoricalFill = "missing_value"

// Compute returns the fill value for one column. values are the column's
// non-missing cells in row order and fill is the configured constant, if any.
func Compute(column string, values []frame.Value, kind ColumnKind, s Strategy, fill *frame.Value) (frame.Value, error) {
	switch s {
	case StrategyMean, StrategyMedian:
		xs, err := numbers(column, values, kind, s)
		if err != nil {
			return frame.Value{}, err
		}
		if s == StrategyMean {
			return frame.Float(stat.Mean(xs, nil)), nil
		}
		return frame.Float(median(xs)), nil
	case StrategyMostFrequent:
		if len(values) == 0 {
			return frame.Value{}, errors.NewEmptyColumnError(column, s.String())
		}
		return mostFrequent(values), nil
	case StrategyConstant:
		if fill != nil {
			if kind == Numeric && !fill.IsNumeric() {
				return frame.Value{}, errors.NewTypeMismatchError(column, s.String(), fill.Kind().String())
			}
			return *fill, nil
		}
		if kind == Numeric {
			return frame.Int(0), nil
		}
		return frame.String(DefaultCategoricalFill), nil
	}
	return frame.Value{}, errors.NewConfigurationError("strategy", "unsupported strategy", s.String())
}

func numbers(column string, values []frame.Value, kind ColumnKind, s Strategy) ([]float64, error) {
	if kind == Categorical {
		return nil, errors.NewTypeMismatchError(column, s.String(), kind.String())
	}
	if len(values) == 0 {
		return nil, errors.NewEmptyColumnError(column, s.String())
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		x, ok := v.Float()
		if !ok {
			return nil, errors.NewTypeMismatchError(column, s.String(), v.Kind().String())
		}
		// NaN is only a value when the marker is something else.
		if math.IsNaN(x) {
			return nil, errors.NewTypeMismatchError(column, s.String(), "NaN")
		}
		xs[i] = x
	}
	return xs, nil
}

func median(xs []float64) float64 {
	vals := make([]float64, len(xs))
	copy(vals, xs)
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}
	return vals[mid]
}

// mostFrequent returns the value with the highest count; among tied values
// the one that appears first wins.
func mostFrequent(values []frame.Value) frame.Value {
	type tally struct {
		first int
		n     int
	}
	counts := make(map[frame.Key]*tally, len(values))
	order := make([]frame.Key, 0)
	for i, v := range values {
		k := v.Key()
		t, ok := counts[k]
		if !ok {
			t = &tally{first: i}
			counts[k] = t
			order = append(order, k)
		}
		t.n++
	}
	best := counts[order[0]]
	for _, k := range order[1:] {
		if t := counts[k]; t.n > best.n {
			best = t
		}
	}
	return values[best.first]
}
