// Package impute fills missing cells in a frame with per-column statistics
// learned once by Fit and replayed by every later Transform.
package impute

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	ilog "github.com/wdm0006/imputer/pkg/log"
)

// Imputer learns fill values with Fit and applies them with Transform.
// An Imputer without a fitted state is Unfitted; Transform then fails.
type Imputer struct {
	cfg    Config
	fill   *frame.Value
	state  *FittedState
	logger zerolog.Logger
}

type Option func(*Imputer)

// WithLogger sets the logger used for fit and transform summaries.
func WithLogger(l zerolog.Logger) Option {
	return func(im *Imputer) { im.logger = l }
}

// New validates cfg and returns an Unfitted imputer.
func New(cfg Config, opts ...Option) (*Imputer, error) {
	if cfg.Strategy == strategyUnset {
		cfg.Strategy = StrategyMean
	}
	if !cfg.Strategy.valid() {
		return nil, errors.NewConfigurationError("strategy", "unsupported strategy", int(cfg.Strategy))
	}
	if cfg.CategoricalStrategy != strategyUnset && !cfg.CategoricalStrategy.valid() {
		return nil, errors.NewConfigurationError("categorical_strategy", "unsupported strategy", int(cfg.CategoricalStrategy))
	}
	im := &Imputer{cfg: cfg, logger: ilog.Nop()}
	if cfg.FillValue != nil {
		v, err := frame.Of(cfg.FillValue)
		if err != nil {
			return nil, errors.NewConfigurationError("fill_value", err.Error(), cfg.FillValue)
		}
		im.fill = &v
	}
	for _, opt := range opts {
		opt(im)
	}
	return im, nil
}

func (im *Imputer) Config() Config      { return im.cfg }
func (im *Imputer) State() *FittedState { return im.state }
func (im *Imputer) IsFitted() bool      { return im.state != nil }

func (im *Imputer) strategyFor(k ColumnKind) Strategy {
	if k == Categorical && im.cfg.CategoricalStrategy != strategyUnset {
		return im.cfg.CategoricalStrategy
	}
	return im.cfg.Strategy
}

type fitResult struct {
	entry   Entry
	skipped bool
}

// Fit computes one fill value per column of f. The new state replaces the
// previous one only when every column succeeds.
func (im *Imputer) Fit(f *frame.Frame) (*Imputer, error) {
	cols := f.Columns()
	results := make([]fitResult, len(cols))

	if im.cfg.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(im.cfg.Workers)
		for i, col := range cols {
			i, col := i, col
			g.Go(func() error {
				r, err := im.fitColumn(col)
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return im, err
		}
	} else {
		for i, col := range cols {
			r, err := im.fitColumn(col)
			if err != nil {
				return im, err
			}
			results[i] = r
		}
	}

	entries := make([]Entry, 0, len(results))
	var skipped []string
	for i, r := range results {
		if r.skipped {
			skipped = append(skipped, cols[i].Name())
			continue
		}
		entries = append(entries, r.entry)
	}
	im.state = newFittedState(entries, skipped)
	im.logger.Debug().
		Int("rows", f.Rows()).
		Int("fitted", len(entries)).
		Strs("skipped", skipped).
		Str("strategy", im.cfg.Strategy.String()).
		Msg("imputer fitted")
	return im, nil
}

func (im *Imputer) fitColumn(col *frame.Column) (fitResult, error) {
	kind := Classify(col, im.cfg.Missing)
	if im.cfg.NumericOnly && kind == Categorical {
		return fitResult{skipped: true}, nil
	}
	fill, err := Compute(col.Name(), present(col, im.cfg.Missing), kind, im.strategyFor(kind), im.fill)
	if err != nil {
		return fitResult{}, err
	}
	return fitResult{entry: Entry{Column: col.Name(), Kind: kind, Fill: fill}}, nil
}

// Transform replaces missing cells of fitted columns with their fill value.
// With Copy the input is left untouched and a new frame is returned;
// otherwise f itself is modified and returned.
func (im *Imputer) Transform(f *frame.Frame) (*frame.Frame, error) {
	if im.state == nil {
		return nil, errors.NewNotFittedError("Imputer", "Transform")
	}
	plan := make([]*Entry, f.Cols())
	for i, col := range f.Columns() {
		e, err := im.state.Lookup(col.Name())
		if err == nil {
			plan[i] = &e
			continue
		}
		if im.state.WasSkipped(col.Name()) {
			continue
		}
		if im.cfg.NumericOnly && Classify(col, im.cfg.Missing) == Categorical {
			continue
		}
		return nil, err
	}

	out := f
	if im.cfg.Copy {
		out = f.Clone()
	}
	filled, residual := 0, 0
	for i, col := range out.Columns() {
		if plan[i] != nil {
			filled += fillColumn(col, im.cfg.Missing, plan[i].Fill)
		}
		residual += int(Mask(col, im.cfg.Missing).GetCardinality())
	}

	im.logger.Debug().Int("rows", out.Rows()).Int("filled", filled).Msg("imputer transformed")
	if residual > 0 {
		im.logger.Warn().Int("missing", residual).Msg("missing values remain after imputation")
	}
	return out, nil
}

// OutputSchema returns the schema Transform produces for input schema s: int
// columns whose fill value is fractional become float columns.
func (im *Imputer) OutputSchema(s frame.Schema) frame.Schema {
	out := frame.Schema{Columns: append([]frame.ColumnSchema(nil), s.Columns...)}
	for i, cs := range out.Columns {
		if cs.Type != frame.KindInt {
			continue
		}
		if e, err := im.state.Lookup(cs.Name); err == nil && e.Fill.Kind() == frame.KindFloat {
			if _, integral := e.Fill.Int(); !integral {
				out.Columns[i].Type = frame.KindFloat
			}
		}
	}
	return out
}

// FitTransform fits on f and transforms the same frame.
func (im *Imputer) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	if _, err := im.Fit(f); err != nil {
		return nil, err
	}
	return im.Transform(f)
}

func (im *Imputer) Name() string { return "impute" }

func (im *Imputer) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return im.Transform(f)
}

func (im *Imputer) FitFrame(ctx context.Context, f *frame.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := im.Fit(f)
	return err
}

// fillColumn writes fill into every missing cell of col, converting it to the
// column kind, and returns the number of cells written.
func fillColumn(col *frame.Column, m Marker, fill frame.Value) int {
	rows := Mask(col, m)
	if rows.IsEmpty() {
		return 0
	}
	if col.Kind() == frame.KindInt && fill.Kind() == frame.KindFloat {
		if n, ok := fill.Int(); ok {
			fill = frame.Int(n)
		} else {
			col.Promote(frame.KindFloat)
		}
	}
	it := rows.Iterator()
	for it.HasNext() {
		col.Set(int(it.Next()), fill)
	}
	return int(rows.GetCardinality())
}
