package profile

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/wdm0006/imputer/pkg/errors"
)

// SavePlot renders a bar chart of missing cells per column. The image format
// follows the file extension (png, svg, pdf...).
func (c *Collector) SavePlot(path string) error {
	if len(c.cols) == 0 {
		return errors.New("profile: no columns to plot")
	}
	p := plot.New()
	p.Title.Text = "Missing values per column"
	p.Y.Label.Text = "missing"
	p.Y.Min = 0

	vals := make(plotter.Values, len(c.cols))
	names := make([]string, len(c.cols))
	for i, cp := range c.cols {
		vals[i] = float64(cp.Missing)
		names[i] = cp.Name
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "profile: bar chart")
	}
	p.Add(bars)
	p.NominalX(names...)

	width := vg.Length(len(c.cols)) * vg.Points(40)
	if width < 4*vg.Inch {
		width = 4 * vg.Inch
	}
	if err := p.Save(width, 3*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "profile: save %s", path)
	}
	return nil
}
