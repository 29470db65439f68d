// Package profile summarizes frames column by column: missing counts under
// a configured marker, numeric ranges and value frequencies. Frames can be
// consumed chunk by chunk.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

type NumStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
}

// Mean is zero when no numeric value was seen.
func (n *NumStats) Mean() float64 {
	if n.Count == 0 {
		return 0
	}
	return n.Sum / float64(n.Count)
}

type BoolStats struct {
	True  int `json:"true"`
	False int `json:"false"`
}

type ColumnProfile struct {
	Name    string
	Kind    frame.Kind
	Count   int
	Missing int
	Num     *NumStats
	Bool    *BoolStats
	Freqs   map[string]int

	nonNumeric bool
}

// Class is the imputation class the column would get: categorical as soon
// as one non-missing cell is not a number. Columns with no non-missing cell
// are classed by their declared kind.
func (cp *ColumnProfile) Class() impute.ColumnKind {
	switch {
	case cp.nonNumeric:
		return impute.Categorical
	case cp.Count == 0:
		return impute.ClassifyKind(cp.Kind)
	}
	return impute.Numeric
}

type Collector struct {
	cols    []ColumnProfile
	index   map[string]int
	topK    int
	missing impute.Marker
}

func NewCollector(schema frame.Schema, topK int, missing impute.Marker) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK, missing: missing}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	for i, cs := range schema.Columns {
		c.cols[i] = ColumnProfile{
			Name:  cs.Name,
			Kind:  cs.Type,
			Num:   &NumStats{Min: math.Inf(1), Max: math.Inf(-1)},
			Bool:  &BoolStats{},
			Freqs: make(map[string]int),
		}
		c.index[cs.Name] = i
	}
	return c
}

// Profile is a one-shot Collector over f.
func Profile(f *frame.Frame, topK int, missing impute.Marker) *Collector {
	c := NewCollector(f.Schema(), topK, missing)
	c.ConsumeFrame(f)
	return c
}

// ConsumeFrame adds the cells of f. Columns unknown to the collector are ignored.
func (c *Collector) ConsumeFrame(f *frame.Frame) {
	var nums []float64
	for _, col := range f.Columns() {
		idx, ok := c.index[col.Name()]
		if !ok {
			continue
		}
		cp := &c.cols[idx]
		nums = nums[:0]
		for i := 0; i < col.Len(); i++ {
			v := col.Get(i)
			if c.missing.IsMissing(v) {
				cp.Missing++
				continue
			}
			cp.Count++
			if x, ok := v.Float(); ok && !math.IsNaN(x) {
				nums = append(nums, x)
				continue
			}
			if !v.IsNumeric() {
				cp.nonNumeric = true
			}
			if b, ok := v.Bool(); ok {
				if b {
					cp.Bool.True++
				} else {
					cp.Bool.False++
				}
			}
			if c.topK > 0 {
				cp.Freqs[v.String()]++
			}
		}
		if len(nums) > 0 {
			cp.Num.Count += len(nums)
			cp.Num.Sum += floats.Sum(nums)
			cp.Num.Min = math.Min(cp.Num.Min, floats.Min(nums))
			cp.Num.Max = math.Max(cp.Num.Max, floats.Max(nums))
		}
	}
}

func (c *Collector) Columns() []ColumnProfile { return c.cols }

// TotalMissing sums the missing cells of every column.
func (c *Collector) TotalMissing() int {
	n := 0
	for _, cp := range c.cols {
		n += cp.Missing
	}
	return n
}

type freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// top returns the k most frequent values, ties by value.
func (c *Collector) top(cp *ColumnProfile) []freq {
	arr := make([]freq, 0, len(cp.Freqs))
	for k, v := range cp.Freqs {
		arr = append(arr, freq{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if c.topK > 0 && c.topK < len(arr) {
		arr = arr[:c.topK]
	}
	return arr
}

func (c *Collector) ReportText() string {
	var b strings.Builder
	b.WriteString("Profile Summary\n")
	for i := range c.cols {
		cp := &c.cols[i]
		fmt.Fprintf(&b, "- %s (%v, %v): count=%d missing=%d", cp.Name, cp.Kind, cp.Class(), cp.Count, cp.Missing)
		if cp.Num.Count > 0 {
			fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g", cp.Num.Min, cp.Num.Max, cp.Num.Mean())
		}
		if cp.Bool.True+cp.Bool.False > 0 {
			fmt.Fprintf(&b, " true=%d false=%d", cp.Bool.True, cp.Bool.False)
		}
		b.WriteByte('\n')
		for _, kv := range c.top(cp) {
			fmt.Fprintf(&b, "  * %q: %d\n", kv.Value, kv.Count)
		}
	}
	return b.String()
}

type JSONProfile struct {
	Columns []JSONColumn `json:"columns"`
}

type JSONColumn struct {
	Name    string     `json:"name"`
	Kind    string     `json:"kind"`
	Class   string     `json:"class"`
	Count   int        `json:"count"`
	Missing int        `json:"missing"`
	Num     *NumStats  `json:"num,omitempty"`
	Bool    *BoolStats `json:"bool,omitempty"`
	Top     []freq     `json:"top,omitempty"`
}

func (c *Collector) ReportJSON() JSONProfile {
	out := JSONProfile{Columns: make([]JSONColumn, 0, len(c.cols))}
	for i := range c.cols {
		cp := &c.cols[i]
		jc := JSONColumn{
			Name:    cp.Name,
			Kind:    cp.Kind.String(),
			Class:   cp.Class().String(),
			Count:   cp.Count,
			Missing: cp.Missing,
			Top:     c.top(cp),
		}
		if cp.Num.Count > 0 {
			jc.Num = cp.Num
		}
		if cp.Bool.True+cp.Bool.False > 0 {
			jc.Bool = cp.Bool
		}
		out.Columns = append(out.Columns, jc)
	}
	return out
}
