package golearn

import (
	"math"
	"testing"

	"github.com/sjwhitworth/golearn/base"
	"github.com/smartystreets/goconvey/convey"

	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

func irisLike() *frame.Frame {
	nan := math.NaN()
	return frame.MustNew(
		frame.MustColumn("sepal_length", frame.KindFloat, 5.1, nan, 6.3, 6.5, nan, 4.9),
		frame.MustColumn("petal_width", frame.KindFloat, 0.2, 0.3, nan, 2.0, 1.9, 0.1),
		frame.MustColumn("species", frame.KindString, "setosa", "setosa", "virginica", "virginica", "virginica", nan),
	)
}

func floatAt(inst *base.DenseInstances, name string, row int) float64 {
	for _, a := range inst.AllAttributes() {
		if a.GetName() == name {
			spec, _ := inst.GetAttribute(a)
			return base.UnpackBytesToFloat(inst.Get(spec, row))
		}
	}
	return math.Inf(1)
}

func TestAdapter(t *testing.T) {
	convey.Convey("Given a frame with missing cells", t, func() {
		f := irisLike()
		inst, err := ToDenseInstances(f)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("The instances keep shape, class and NaN cells", func() {
			cols, rows := inst.Size()
			convey.So(cols, convey.ShouldEqual, 3)
			convey.So(rows, convey.ShouldEqual, 6)
			convey.So(inst.AllClassAttributes(), convey.ShouldHaveLength, 1)
			convey.So(math.IsNaN(floatAt(inst, "sepal_length", 1)), convey.ShouldBeTrue)
		})

		convey.Convey("Converting back restores the frame", func() {
			back, err := FromDenseInstances(inst)
			convey.So(err, convey.ShouldBeNil)
			convey.So(back.Equal(f), convey.ShouldBeTrue)
		})

		convey.Convey("Imputing the instances with the median", func() {
			cfg := impute.DefaultConfig()
			cfg.Strategy = impute.StrategyMedian
			im, err := impute.New(cfg)
			convey.So(err, convey.ShouldBeNil)

			clean, err := FitTransformInstances(im, inst)
			convey.So(err, convey.ShouldBeNil)
			convey.So(floatAt(clean, "sepal_length", 1), convey.ShouldAlmostEqual, 5.7)
			convey.So(floatAt(clean, "petal_width", 2), convey.ShouldAlmostEqual, 0.3)

			convey.Convey("The categorical class is left alone in numeric-only mode", func() {
				back, err := FromDenseInstances(clean)
				convey.So(err, convey.ShouldBeNil)
				v, _ := back.Cell(5, "species")
				convey.So(v.IsNaN(), convey.ShouldBeTrue)
			})

			convey.Convey("A fitted imputer can be reused on new instances", func() {
				again, err := TransformInstances(im, inst)
				convey.So(err, convey.ShouldBeNil)
				convey.So(floatAt(again, "sepal_length", 4), convey.ShouldAlmostEqual, 5.7)
			})
		})

		convey.Convey("Constant zero fill replaces the legacy constant imputer", func() {
			cfg := impute.DefaultConfig()
			cfg.Strategy = impute.StrategyConstant
			cfg.FillValue = 0.0
			im, err := impute.New(cfg)
			convey.So(err, convey.ShouldBeNil)
			clean, err := FitTransformInstances(im, inst)
			convey.So(err, convey.ShouldBeNil)
			convey.So(floatAt(clean, "sepal_length", 4), convey.ShouldEqual, 0.0)
		})

		convey.Convey("Transforming before fitting fails", func() {
			im, err := impute.New(impute.DefaultConfig())
			convey.So(err, convey.ShouldBeNil)
			_, err = TransformInstances(im, inst)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
