// Package golearn converts between frames and github.com/sjwhitworth/golearn
// DenseInstances and runs the imputer over instances.
package golearn

import (
	"math"

	"github.com/sjwhitworth/golearn/base"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

// MissingCategory is the category used for missing cells of categorical
// attributes; float attributes keep NaN.
const MissingCategory = "NaN"

// ToDenseInstances converts a Frame into golearn DenseInstances. Columns whose
// cells are all numbers (or NaN) become float attributes, the rest
// categorical. A categorical last column becomes the class attribute.
func ToDenseInstances(f *frame.Frame) (*base.DenseInstances, error) {
	cols := f.Columns()
	attrs := make([]base.Attribute, len(cols))
	for i, col := range cols {
		if impute.Classify(col, impute.MissingNaN()) == impute.Numeric && !hasNull(col) {
			attrs[i] = base.NewFloatAttribute(col.Name())
			continue
		}
		ca := new(base.CategoricalAttribute)
		ca.SetName(col.Name())
		attrs[i] = ca
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, errors.Wrap(err, "golearn: extend instances")
	}

	for c, col := range cols {
		_, isFloat := attrs[c].(*base.FloatAttribute)
		for r := 0; r < f.Rows(); r++ {
			v := col.Get(r)
			if isFloat {
				x, _ := v.Float()
				inst.Set(specs[c], r, base.PackFloatToBytes(x))
				continue
			}
			s := v.String()
			if v.IsNaN() || v.IsNull() {
				s = MissingCategory
			}
			inst.Set(specs[c], r, attrs[c].GetSysValFromString(s))
		}
	}
	if n := len(attrs); n > 0 {
		if _, ok := attrs[n-1].(*base.CategoricalAttribute); ok {
			if err := inst.AddClassAttribute(attrs[n-1]); err != nil {
				return nil, errors.Wrap(err, "golearn: class attribute")
			}
		}
	}
	return inst, nil
}

func hasNull(col *frame.Column) bool {
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			return true
		}
	}
	return false
}

// FromDenseInstances converts golearn DenseInstances into a Frame. The
// MissingCategory of categorical attributes reads back as NaN.
func FromDenseInstances(inst *base.DenseInstances) (*frame.Frame, error) {
	attrs := inst.AllAttributes()
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := frame.KindString
		if _, ok := a.(*base.FloatAttribute); ok {
			k = frame.KindFloat
		}
		schema.Columns[i] = frame.ColumnSchema{Name: a.GetName(), Type: k}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, errors.Wrapf(err, "golearn: attribute %s", a.GetName())
		}
		specs[i] = spec
	}
	f := frame.NewFrame(schema)
	_, nrows := inst.Size()
	row := make([]frame.Value, len(attrs))
	for r := 0; r < nrows; r++ {
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			if cs.Type == frame.KindFloat {
				row[c] = frame.Float(base.UnpackBytesToFloat(raw))
				continue
			}
			s := attrs[c].GetStringFromSysVal(raw)
			if s == MissingCategory {
				row[c] = frame.Float(math.NaN())
				continue
			}
			row[c] = frame.String(s)
		}
		if err := f.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// TransformInstances imputes inst with an already fitted imputer and returns
// new instances.
func TransformInstances(im *impute.Imputer, inst *base.DenseInstances) (*base.DenseInstances, error) {
	f, err := FromDenseInstances(inst)
	if err != nil {
		return nil, err
	}
	out, err := im.Transform(f)
	if err != nil {
		return nil, err
	}
	return ToDenseInstances(out)
}

// FitTransformInstances fits im on inst and imputes it.
func FitTransformInstances(im *impute.Imputer, inst *base.DenseInstances) (*base.DenseInstances, error) {
	f, err := FromDenseInstances(inst)
	if err != nil {
		return nil, err
	}
	if _, err := im.Fit(f); err != nil {
		return nil, err
	}
	out, err := im.Transform(f)
	if err != nil {
		return nil, err
	}
	return ToDenseInstances(out)
}
