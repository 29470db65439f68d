package csvio

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	iox "github.com/wdm0006/imputer/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
	// NARep is written for NaN and Null cells; default empty.
	NARep string
}

// WriteAll writes a Frame with headers to path, compressed according to its
// extension ("-" writes to stdout).
func WriteAll(path string, f *frame.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write writes a Frame with headers to w.
func Write(out io.Writer, f *frame.Frame, opt WriterOptions) error {
	w := newCSVWriter(out, opt)
	if err := w.Write(f.Schema().Names()); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	if err := writeRows(w, out, f, opt); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func newCSVWriter(out io.Writer, opt WriterOptions) *csv.Writer {
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}
	return w
}

// writeRows writes the rows of f through w. out is the writer underneath w; a
// lone empty field goes there directly as "" because encoding/csv would emit
// a blank line, which readers skip.
func writeRows(w *csv.Writer, out io.Writer, f *frame.Frame, opt WriterOptions) error {
	row := make([]string, f.Cols())
	for r := 0; r < f.Rows(); r++ {
		for c, col := range f.Columns() {
			row[c] = formatCell(col.Get(r), opt)
		}
		if len(row) == 1 && row[0] == "" {
			w.Flush()
			if err := w.Error(); err != nil {
				return errors.Wrapf(err, "write csv row %d", r)
			}
			if _, err := io.WriteString(out, "\"\"\n"); err != nil {
				return errors.Wrapf(err, "write csv row %d", r)
			}
			continue
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write csv row %d", r)
		}
	}
	return nil
}

func formatCell(v frame.Value, opt WriterOptions) string {
	if v.IsNull() || v.IsNaN() {
		return opt.NARep
	}
	if t, ok := v.Time(); ok {
		return t.Format(time.RFC3339)
	}
	return v.String()
}
