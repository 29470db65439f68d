package frame

import (
	"fmt"
	"strings"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name string
	Type Kind
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Column is a named, ordered sequence of cells. A cell may hold a value whose
// kind differs from the column kind; that is how foreign missing markers
// such as "?" in a float column are represented.
type Column struct {
	name  string
	kind  Kind
	cells []Value
}

// NewColumn builds a column from Go scalars. With KindInvalid the kind is
// inferred from the values.
func NewColumn(name string, kind Kind, values ...any) (*Column, error) {
	c := &Column{name: name, kind: kind, cells: make([]Value, len(values))}
	for i, x := range values {
		v, err := Of(x)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, i, err)
		}
		c.cells[i] = c.coerce(v)
	}
	if kind == KindInvalid {
		c.kind = InferKind(c.cells)
		for i, v := range c.cells {
			c.cells[i] = c.coerce(v)
		}
	}
	return c, nil
}

// MustColumn is like NewColumn but panics on error.
func MustColumn(name string, kind Kind, values ...any) *Column {
	c, err := NewColumn(name, kind, values...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Column) Name() string       { return c.name }
func (c *Column) Kind() Kind         { return c.kind }
func (c *Column) Len() int           { return len(c.cells) }
func (c *Column) Get(i int) Value    { return c.cells[i] }
func (c *Column) IsNull(i int) bool  { return c.cells[i].IsNull() }
func (c *Column) SetNull(i int)      { c.cells[i] = Null() }
func (c *Column) Set(i int, v Value) { c.cells[i] = c.coerce(v) }
func (c *Column) Append(v Value)     { c.cells = append(c.cells, c.coerce(v)) }
func (c *Column) AppendNull()        { c.cells = append(c.cells, Null()) }

// Values returns a copy of the cells.
func (c *Column) Values() []Value {
	out := make([]Value, len(c.cells))
	copy(out, c.cells)
	return out
}

// Promote changes an int column into a float column, converting its int cells.
func (c *Column) Promote(k Kind) {
	if c.kind == k {
		return
	}
	if c.kind == KindInt && k == KindFloat {
		for i, v := range c.cells {
			if v.kind == KindInt {
				c.cells[i] = Float(float64(v.i))
			}
		}
	}
	c.kind = k
}

func (c *Column) clone() *Column {
	return &Column{name: c.name, kind: c.kind, cells: c.Values()}
}

// coerce widens ints stored into float columns; everything else is kept as is.
func (c *Column) coerce(v Value) Value {
	if c.kind == KindFloat && v.kind == KindInt {
		return Float(float64(v.i))
	}
	return v
}

// InferKind derives a column kind from its non-null, non-NaN cells.
func InferKind(cells []Value) Kind {
	seen := map[Kind]int{}
	for _, v := range cells {
		if v.IsNull() || v.IsNaN() {
			continue
		}
		seen[v.kind]++
	}
	switch {
	case len(seen) == 0:
		for _, v := range cells {
			if v.IsNaN() {
				return KindFloat
			}
		}
		return KindInvalid
	case len(seen) == 1:
		for k := range seen {
			if k == KindInt && hasNaN(cells) {
				return KindFloat
			}
			return k
		}
	case len(seen) == 2 && seen[KindInt] > 0 && seen[KindFloat] > 0:
		return KindFloat
	}
	return KindInvalid
}

func hasNaN(cells []Value) bool {
	for _, v := range cells {
		if v.IsNaN() {
			return true
		}
	}
	return false
}

// Frame is a columnar container for tabular data.
type Frame struct {
	cols  []*Column
	index map[string]int // name -> col index
	nrows int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{cols: make([]*Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		f.cols[i] = &Column{name: cs.Name, kind: cs.Type}
		f.index[cs.Name] = i
	}
	return f
}

// New assembles a frame from columns of equal length with unique names.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{cols: make([]*Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := f.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column: %s", c.name)
		}
		if i > 0 && c.Len() != f.nrows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", c.name, c.Len(), f.nrows)
		}
		f.nrows = c.Len()
		f.index[c.name] = i
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// MustNew is like New but panics on error.
func MustNew(cols ...*Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Frame) Rows() int            { return f.nrows }
func (f *Frame) Cols() int            { return len(f.cols) }
func (f *Frame) Column(i int) *Column { return f.cols[i] }
func (f *Frame) Columns() []*Column   { return f.cols }

func (f *Frame) Schema() Schema {
	s := Schema{Columns: make([]ColumnSchema, len(f.cols))}
	for i, c := range f.cols {
		s.Columns[i] = ColumnSchema{Name: c.name, Type: c.kind}
	}
	return s
}

func (f *Frame) ColumnByName(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		c.AppendNull()
	}
	f.nrows++
}

// AppendRow appends one value per column, in column order.
func (f *Frame) AppendRow(vals ...Value) error {
	if len(vals) != len(f.cols) {
		return fmt.Errorf("row has %d values, frame has %d columns", len(vals), len(f.cols))
	}
	for i, c := range f.cols {
		c.Append(vals[i])
	}
	f.nrows++
	return nil
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	if row < 0 || row >= f.nrows {
		return fmt.Errorf("row %d out of range [0,%d)", row, f.nrows)
	}
	val, err := Of(v)
	if err != nil {
		return fmt.Errorf("column %s: %w", name, err)
	}
	f.cols[i].Set(row, val)
	return nil
}

// Cell returns the value at row in the named column.
func (f *Frame) Cell(row int, name string) (Value, bool) {
	c, ok := f.ColumnByName(name)
	if !ok || row < 0 || row >= f.nrows {
		return Value{}, false
	}
	return c.Get(row), true
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{cols: make([]*Column, len(f.cols)), index: make(map[string]int, len(f.index)), nrows: f.nrows}
	for i, c := range f.cols {
		out.cols[i] = c.clone()
		out.index[c.name] = i
	}
	return out
}

// Equal reports whether two frames have the same columns, kinds and cells.
// NaN cells are considered equal to each other here.
func (f *Frame) Equal(o *Frame) bool {
	if f.nrows != o.nrows || len(f.cols) != len(o.cols) {
		return false
	}
	for i, c := range f.cols {
		oc := o.cols[i]
		if c.name != oc.name || c.kind != oc.kind {
			return false
		}
		for r := range c.cells {
			a, b := c.cells[r], oc.cells[r]
			if a.IsNaN() && b.IsNaN() {
				continue
			}
			if a.Kind() != b.Kind() || !a.Equal(b) {
				return false
			}
		}
	}
	return true
}

func (f *Frame) String() string {
	var b strings.Builder
	for i, c := range f.cols {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(c.name)
	}
	b.WriteByte('\n')
	for r := 0; r < f.nrows; r++ {
		for i, c := range f.cols {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(c.cells[r].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
