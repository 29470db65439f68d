package jsonlio

import (
	"bufio"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	iox "github.com/wdm0006/imputer/pkg/io/ioutils"
)

// WriteAll writes one JSON object per row to path; NaN and Null cells are
// written as null.
func WriteAll(path string, f *frame.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func Write(out io.Writer, f *frame.Frame) error {
	w := bufio.NewWriter(out)
	if err := encodeRows(json.NewEncoder(w), f); err != nil {
		return err
	}
	return w.Flush()
}

func encodeRows(enc *json.Encoder, f *frame.Frame) error {
	cols := f.Columns()
	for r := 0; r < f.Rows(); r++ {
		m := make(map[string]any, len(cols))
		for _, col := range cols {
			v := col.Get(r)
			if v.IsNaN() {
				m[col.Name()] = nil
				continue
			}
			m[col.Name()] = v.Any()
		}
		if err := enc.Encode(m); err != nil {
			return errors.Wrapf(err, "encode row %d", r)
		}
	}
	return nil
}
