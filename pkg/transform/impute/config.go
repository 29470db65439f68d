package impute

import (
	"github.com/wdm0006/imputer/pkg/errors"
)

// Strategy selects how a column's fill value is computed.
type Strategy int

const (
	strategyUnset Strategy = iota
	StrategyMean
	StrategyMedian
	StrategyMostFrequent
	StrategyConstant
)

func (s Strategy) String() string {
	switch s {
	case StrategyMean:
		return "mean"
	case StrategyMedian:
		return "median"
	case StrategyMostFrequent:
		return "most_frequent"
	case StrategyConstant:
		return "constant"
	case strategyUnset:
		return "unset"
	default:
		return "invalid"
	}
}

func (s Strategy) valid() bool { return s >= StrategyMean && s <= StrategyConstant }

// ParseStrategy accepts exactly mean, median, most_frequent and constant.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "mean":
		return StrategyMean, nil
	case "median":
		return StrategyMedian, nil
	case "most_frequent":
		return StrategyMostFrequent, nil
	case "constant":
		return StrategyConstant, nil
	}
	return strategyUnset, errors.NewConfigurationError("strategy",
		"choose from mean, median, most_frequent, constant", s)
}

// Config is fixed for the lifetime of an Imputer. The zero Config is not the
// default one: use DefaultConfig and override fields.
type Config struct {
	// NumericOnly leaves categorical columns untouched.
	NumericOnly bool
	// Missing defines which cells count as missing. The zero Marker is NaN.
	Missing Marker
	// Strategy applies to every imputed column. Zero means StrategyMean.
	Strategy Strategy
	// CategoricalStrategy, when set, replaces Strategy for categorical columns.
	CategoricalStrategy Strategy
	// FillValue is the constant used by StrategyConstant; nil selects 0 for
	// numeric columns and "missing_value" for categorical ones.
	FillValue any
	// Copy makes Transform work on a deep copy instead of the input frame.
	Copy bool
	// Workers bounds per-column parallelism during Fit; values below 2 fit sequentially.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		NumericOnly: true,
		Missing:     MissingNaN(),
		Strategy:    StrategyMean,
		Copy:        true,
		Workers:     1,
	}
}
