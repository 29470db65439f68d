package main

import (
	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/io/csvio"
	"github.com/wdm0006/imputer/pkg/io/jsonlio"
	"github.com/wdm0006/imputer/pkg/io/parquetio"
)

// readTable loads a whole table. nullMissing reads absent cells as Null
// rather than NaN.
func readTable(c IOConfig, nullMissing bool) (*frame.Frame, error) {
	switch c.format() {
	case "csv":
		return csvio.Read(c.Path, c.csvOptions(nullMissing))
	case "jsonl":
		return jsonlio.Read(c.Path, jsonlio.ReaderOptions{KeepNull: nullMissing})
	case "parquet":
		r, err := parquetio.OpenReader(c.Path, parquetio.ReaderOptions{KeepNull: nullMissing})
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadAll()
	}
	return nil, errors.NewConfigurationError("type", "choose from csv, jsonl, parquet", c.Type)
}

func writeTable(c IOConfig, f *frame.Frame) error {
	switch c.format() {
	case "csv":
		return csvio.WriteAll(c.Path, f, csvio.WriterOptions{Delimiter: c.delimiter()})
	case "jsonl":
		return jsonlio.WriteAll(c.Path, f)
	case "parquet":
		return parquetio.WriteAll(c.Path, f)
	}
	return errors.NewConfigurationError("type", "choose from csv, jsonl, parquet", c.Type)
}

// chunkSource is a frame.ChunkSource that can report its schema and be closed.
type chunkSource interface {
	frame.ChunkSource
	Schema() frame.Schema
	Close() error
}

func openStream(c IOConfig, chunkSize int, nullMissing bool) (chunkSource, error) {
	switch c.format() {
	case "csv":
		return csvio.NewStreamReader(c.Path, c.csvOptions(nullMissing), chunkSize)
	case "jsonl":
		return jsonlio.NewStreamReader(c.Path, jsonlio.ReaderOptions{KeepNull: nullMissing}, chunkSize)
	case "parquet":
		return parquetio.NewStreamReader(c.Path, parquetio.ReaderOptions{KeepNull: nullMissing}, chunkSize)
	}
	return nil, errors.NewConfigurationError("type", "choose from csv, jsonl, parquet", c.Type)
}

func createSink(c IOConfig, schema frame.Schema) (frame.ChunkSink, error) {
	switch c.format() {
	case "csv":
		return csvio.NewStreamWriter(c.Path, schema, csvio.WriterOptions{Delimiter: c.delimiter()})
	case "jsonl":
		return jsonlio.NewStreamWriter(c.Path)
	case "parquet":
		return parquetio.NewStreamWriter(c.Path, schema)
	}
	return nil, errors.NewConfigurationError("type", "choose from csv, jsonl, parquet", c.Type)
}

func (c IOConfig) csvOptions(nullMissing bool) csvio.ReaderOptions {
	return csvio.ReaderOptions{HasHeader: c.header(), Delimiter: c.delimiter(), NullEmpty: nullMissing}
}
