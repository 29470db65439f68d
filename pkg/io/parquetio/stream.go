package parquetio

import (
	"io"

	"github.com/wdm0006/imputer/pkg/frame"
)

// StreamReader reads Parquet rows in chunks as Frames.
type StreamReader struct {
	r         *Reader
	chunkSize int
}

func NewStreamReader(path string, opt ReaderOptions, chunkSize int) (*StreamReader, error) {
	r, err := OpenReader(path, opt)
	if err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = 8192
	}
	return &StreamReader{r: r, chunkSize: chunkSize}, nil
}

func (s *StreamReader) Close() error         { return s.r.Close() }
func (s *StreamReader) Schema() frame.Schema { return s.r.Schema() }

// Next returns the next chunk or io.EOF. Each chunk is typed from the file
// schema, so an int column holding nulls arrives as float.
func (s *StreamReader) Next() (*frame.Frame, error) {
	f := frame.NewFrame(s.r.Schema())
	n, err := s.r.read(f, s.chunkSize)
	if err != nil && (err != io.EOF || n == 0) {
		return nil, err
	}
	promoteIntsWithNaN(f)
	return f, nil
}

// StreamWriter writes Frames to a Parquet file incrementally.
type StreamWriter struct {
	*Writer
}

func NewStreamWriter(path string, schema frame.Schema) (*StreamWriter, error) {
	w, err := NewWriter(path, schema)
	if err != nil {
		return nil, err
	}
	return &StreamWriter{Writer: w}, nil
}
