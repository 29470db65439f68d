package parquetio

import (
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
)

func parquetSchemaJSON(s frame.Schema) string {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case frame.KindFloat:
			tag += "DOUBLE"
		case frame.KindInt:
			tag += "INT64"
		case frame.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// Writer appends frames to a Parquet file. The schema is fixed at creation.
type Writer struct {
	file   source.ParquetFile
	writer *pw.JSONWriter
	schema frame.Schema
}

func NewWriter(path string, schema frame.Schema) (*Writer, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	writer, err := pw.NewJSONWriter(parquetSchemaJSON(schema), fw, 4)
	if err != nil {
		_ = fw.Close()
		return nil, errors.Wrap(err, "parquet writer init")
	}
	return &Writer{file: fw, writer: writer, schema: schema}, nil
}

// Write encodes each row. NaN, Null and cells whose kind does not match the
// column (foreign missing markers) are stored as null.
func (w *Writer) Write(fr *frame.Frame) error {
	for r := 0; r < fr.Rows(); r++ {
		rec := make(map[string]any, len(w.schema.Columns))
		for _, cs := range w.schema.Columns {
			col, ok := fr.ColumnByName(cs.Name)
			if !ok {
				continue
			}
			if v, ok := cellFor(cs.Type, col.Get(r)); ok {
				rec[cs.Name] = v
			}
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrapf(err, "encode parquet row %d", r)
		}
		if err := w.writer.Write(string(b)); err != nil {
			return errors.Wrapf(err, "parquet write row %d", r)
		}
	}
	return nil
}

func (w *Writer) Close() error {
	if err := w.writer.WriteStop(); err != nil {
		_ = w.file.Close()
		return errors.Wrap(err, "parquet write stop")
	}
	return w.file.Close()
}

func cellFor(kind frame.Kind, v frame.Value) (any, bool) {
	if v.IsNull() || v.IsNaN() {
		return nil, false
	}
	switch kind {
	case frame.KindFloat:
		x, ok := v.Float()
		return x, ok
	case frame.KindInt:
		n, ok := v.Int()
		return n, ok
	case frame.KindBool:
		b, ok := v.Bool()
		return b, ok
	}
	if t, ok := v.Time(); ok {
		return t.Format(time.RFC3339), true
	}
	return v.String(), true
}

// WriteAll writes a Frame to a Parquet file.
func WriteAll(path string, f *frame.Frame) error {
	w, err := NewWriter(path, f.Schema())
	if err != nil {
		return err
	}
	if err := w.Write(f); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
