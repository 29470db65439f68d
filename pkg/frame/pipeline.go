package frame

import "context"

// Transform is a mutation applied to a Frame.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Estimator is a Transform that learns its state from a frame first.
type Estimator interface {
	Transform
	FitFrame(ctx context.Context, f *Frame) error
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

func (p *Pipeline) Steps() []Transform { return p.steps }

// Fit fits every Estimator on the output of the steps before it, the way a
// fit_transform pass would, and returns the fully transformed frame.
func (p *Pipeline) Fit(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e, ok := t.(Estimator); ok {
			if err := e.FitFrame(ctx, cur); err != nil {
				return nil, err
			}
		}
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}
