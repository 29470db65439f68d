// Package parquetio reads frames from Parquet files with segmentio/parquet-go
// and writes them with xitongsys/parquet-go.
package parquetio

import (
	"io"
	"os"

	parquet "github.com/segmentio/parquet-go"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
)

// ReaderOptions controls how Parquet nulls are read.
type ReaderOptions struct {
	// KeepNull reads nulls as Null cells instead of NaN.
	KeepNull bool
}

// Reader iterates the rows of a flat Parquet file. Null values read as NaN
// unless KeepNull is set.
type Reader struct {
	opt    ReaderOptions
	file   *os.File
	pf     *parquet.File
	schema frame.Schema
	groups []parquet.RowGroup
	rows   parquet.Rows
	buf    []parquet.Row
}

func OpenReader(path string, opt ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "open parquet %s", path)
	}
	schema, err := schemaOf(pf.Schema())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Reader{opt: opt, file: f, pf: pf, schema: schema, groups: pf.RowGroups()}, nil
}

func (r *Reader) Close() error {
	if r.rows != nil {
		_ = r.rows.Close()
	}
	return r.file.Close()
}

func (r *Reader) Schema() frame.Schema { return r.schema }

// NumRows reports the row count recorded in the file footer.
func (r *Reader) NumRows() int64 { return r.pf.NumRows() }

// ReadAll loads every remaining row.
func (r *Reader) ReadAll() (*frame.Frame, error) {
	f := frame.NewFrame(r.schema)
	for {
		n, err := r.read(f, 1024)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	promoteIntsWithNaN(f)
	return f, nil
}

// read appends up to max rows to f, moving across row groups as needed.
func (r *Reader) read(f *frame.Frame, max int) (int, error) {
	total := 0
	for total < max {
		if r.rows == nil {
			if len(r.groups) == 0 {
				if total == 0 {
					return 0, io.EOF
				}
				return total, nil
			}
			r.rows = r.groups[0].Rows()
			r.groups = r.groups[1:]
		}
		want := max - total
		if cap(r.buf) < want {
			r.buf = make([]parquet.Row, want)
		}
		n, err := r.rows.ReadRows(r.buf[:want])
		for i := 0; i < n; i++ {
			if aerr := f.AppendRow(r.convert(r.buf[i])...); aerr != nil {
				return total, aerr
			}
		}
		total += n
		if err == io.EOF || (err == nil && n == 0) {
			_ = r.rows.Close()
			r.rows = nil
			continue
		}
		if err != nil {
			return total, errors.Wrap(err, "read parquet rows")
		}
	}
	return total, nil
}

func (r *Reader) convert(row parquet.Row) []frame.Value {
	missing := frame.NaN()
	if r.opt.KeepNull {
		missing = frame.Null()
	}
	vals := make([]frame.Value, len(r.schema.Columns))
	for i := range vals {
		vals[i] = missing
	}
	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= len(vals) || v.IsNull() {
			continue
		}
		switch v.Kind() {
		case parquet.Boolean:
			vals[c] = frame.Bool(v.Boolean())
		case parquet.Int32:
			vals[c] = frame.Int(int64(v.Int32()))
		case parquet.Int64:
			vals[c] = frame.Int(v.Int64())
		case parquet.Float:
			vals[c] = frame.Float(float64(v.Float()))
		case parquet.Double:
			vals[c] = frame.Float(v.Double())
		default:
			vals[c] = frame.String(string(v.ByteArray()))
		}
	}
	return vals
}

// schemaOf maps the leaf columns of a flat Parquet schema onto frame kinds.
func schemaOf(s *parquet.Schema) (frame.Schema, error) {
	fields := s.Fields()
	out := frame.Schema{Columns: make([]frame.ColumnSchema, len(fields))}
	for i, fd := range fields {
		if !fd.Leaf() {
			return frame.Schema{}, errors.Newf("parquet column %q is nested; only flat schemas are supported", fd.Name())
		}
		var k frame.Kind
		switch fd.Type().Kind() {
		case parquet.Boolean:
			k = frame.KindBool
		case parquet.Int32, parquet.Int64:
			k = frame.KindInt
		case parquet.Float, parquet.Double:
			k = frame.KindFloat
		default:
			k = frame.KindString
		}
		out.Columns[i] = frame.ColumnSchema{Name: fd.Name(), Type: k}
	}
	return out, nil
}

// promoteIntsWithNaN turns int columns that received NaN cells into float
// columns. Null cells fit any kind and leave the column alone.
func promoteIntsWithNaN(f *frame.Frame) {
	for _, col := range f.Columns() {
		if col.Kind() != frame.KindInt {
			continue
		}
		for i := 0; i < col.Len(); i++ {
			if col.Get(i).IsNaN() {
				col.Promote(frame.KindFloat)
				break
			}
		}
	}
}
