// Package gota converts between frames and github.com/go-gota/gota
// dataframes. Missing cells map to gota NA elements and back to NaN.
package gota

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
)

// na is how gota spells a missing element in its string constructors.
const na = "NaN"

// FromDataFrame converts a gota DataFrame into a Frame.
func FromDataFrame(df dataframe.DataFrame) (*frame.Frame, error) {
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "gota: dataframe")
	}
	names := df.Names()
	cols := make([]*frame.Column, len(names))
	for i, name := range names {
		s := df.Col(name)
		vals := make([]any, s.Len())
		for r := range vals {
			vals[r] = element(s.Type(), s.Elem(r))
		}
		col, err := frame.NewColumn(name, frame.KindInvalid, vals...)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return frame.New(cols...)
}

func element(t series.Type, e series.Element) frame.Value {
	if e.IsNA() {
		return frame.NaN()
	}
	switch t {
	case series.Float:
		return frame.Float(e.Float())
	case series.Int:
		if n, err := e.Int(); err == nil {
			return frame.Int(int64(n))
		}
	case series.Bool:
		if b, err := e.Bool(); err == nil {
			return frame.Bool(b)
		}
	}
	return frame.String(e.String())
}

// ToDataFrame converts a Frame into a gota DataFrame. Numeric columns become
// Int or Float series, boolean columns Bool series and everything else
// String series; NaN and Null cells become NA.
func ToDataFrame(f *frame.Frame) (dataframe.DataFrame, error) {
	ss := make([]series.Series, 0, f.Cols())
	for _, col := range f.Columns() {
		ss = append(ss, toSeries(col))
	}
	df := dataframe.New(ss...)
	if df.Err != nil {
		return df, errors.Wrap(df.Err, "gota: build dataframe")
	}
	return df, nil
}

func toSeries(col *frame.Column) series.Series {
	n := col.Len()
	allInt, allNum, allBool := true, true, true
	for i := 0; i < n; i++ {
		v := col.Get(i)
		if isMissing(v) {
			continue
		}
		allInt = allInt && v.Kind() == frame.KindInt
		allNum = allNum && v.IsNumeric()
		allBool = allBool && v.Kind() == frame.KindBool
	}
	switch {
	case allNum && !(allInt && col.Kind() == frame.KindInt):
		xs := make([]float64, n)
		for i := range xs {
			x, ok := col.Get(i).Float()
			if !ok {
				x = math.NaN()
			}
			xs[i] = x
		}
		return series.New(xs, series.Float, col.Name())
	case allInt:
		return series.New(render(col, func(v frame.Value) string {
			i, _ := v.Int()
			return strconv.FormatInt(i, 10)
		}), series.Int, col.Name())
	case allBool:
		return series.New(render(col, frame.Value.String), series.Bool, col.Name())
	}
	return series.New(render(col, frame.Value.String), series.String, col.Name())
}

func isMissing(v frame.Value) bool { return v.IsNaN() || v.IsNull() }

func render(col *frame.Column, format func(frame.Value) string) []string {
	out := make([]string, col.Len())
	for i := range out {
		v := col.Get(i)
		if isMissing(v) {
			out[i] = na
			continue
		}
		out[i] = format(v)
	}
	return out
}
