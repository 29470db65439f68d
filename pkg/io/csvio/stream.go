package csvio

import (
	"encoding/csv"
	"io"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	iox "github.com/wdm0006/imputer/pkg/io/ioutils"
)

// StreamReader reads CSV into Frame chunks of up to ChunkSize rows.
type StreamReader struct {
	r         *Reader
	schema    frame.Schema
	chunkSize int
}

// NewStreamReader opens the file, infers schema (respecting options), and returns a StreamReader.
func NewStreamReader(path string, opt ReaderOptions, chunkSize int) (*StreamReader, error) {
	rr, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	schema, _, err := rr.InferSchema()
	if err != nil {
		_ = rr.Close()
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	return &StreamReader{r: rr, schema: schema, chunkSize: chunkSize}, nil
}

// Next returns the next chunk frame or io.EOF when complete.
func (s *StreamReader) Next() (*frame.Frame, error) {
	f := frame.NewFrame(s.schema)
	for f.Rows() < s.chunkSize {
		rec, err := s.r.next()
		if err == io.EOF {
			if f.Rows() == 0 {
				return nil, io.EOF
			}
			return f, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.r.appendRecord(f, s.schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *StreamReader) Schema() frame.Schema { return s.schema }
func (s *StreamReader) Close() error         { return s.r.Close() }

// StreamWriter appends frames to a CSV file with a header (written once).
type StreamWriter struct {
	w           *csv.Writer
	out         io.WriteCloser
	opt         WriterOptions
	wroteHeader bool
	schema      frame.Schema
}

func NewStreamWriter(path string, schema frame.Schema, opt WriterOptions) (*StreamWriter, error) {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	return &StreamWriter{w: newCSVWriter(out, opt), out: out, opt: opt, schema: schema}, nil
}

func (s *StreamWriter) Write(fr *frame.Frame) error {
	if !s.wroteHeader {
		if err := s.w.Write(s.schema.Names()); err != nil {
			return errors.Wrap(err, "write csv header")
		}
		s.wroteHeader = true
	}
	if err := writeRows(s.w, s.out, fr, s.opt); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *StreamWriter) Close() error {
	if !s.wroteHeader {
		_ = s.w.Write(s.schema.Names())
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.out.Close()
		return err
	}
	return s.out.Close()
}
