package jsonlio

import (
	"bufio"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/wdm0006/imputer/pkg/frame"
	iox "github.com/wdm0006/imputer/pkg/io/ioutils"
)

type StreamReader struct {
	r         *Reader
	schema    frame.Schema
	chunkSize int
}

// NewStreamReader infers the schema from the first records and then yields
// chunks of chunkSize rows.
func NewStreamReader(path string, opt ReaderOptions, chunkSize int) (*StreamReader, error) {
	r, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	schema, err := r.InferSchema()
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	return &StreamReader{r: r, schema: schema, chunkSize: chunkSize}, nil
}

func (s *StreamReader) Next() (*frame.Frame, error) {
	f := frame.NewFrame(s.schema)
	for f.Rows() < s.chunkSize {
		m, err := s.r.next()
		if err == io.EOF {
			if f.Rows() == 0 {
				return nil, io.EOF
			}
			return f, nil
		}
		if err != nil {
			return nil, err
		}
		if err := f.AppendRow(s.r.rowFromMap(s.schema, m)...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *StreamReader) Schema() frame.Schema { return s.schema }
func (s *StreamReader) Close() error         { return s.r.Close() }

type StreamWriter struct {
	enc *json.Encoder
	w   *bufio.Writer
	out io.WriteCloser
}

func NewStreamWriter(path string) (*StreamWriter, error) {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(out)
	return &StreamWriter{enc: json.NewEncoder(w), w: w, out: out}, nil
}

func (s *StreamWriter) Write(f *frame.Frame) error {
	if err := encodeRows(s.enc, f); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *StreamWriter) Close() error {
	if err := s.w.Flush(); err != nil {
		_ = s.out.Close()
		return err
	}
	return s.out.Close()
}
