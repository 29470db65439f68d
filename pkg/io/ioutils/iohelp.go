// Package ioutils opens inputs and outputs that may be compressed with gzip,
// zstd or lz4, chosen by file extension or, for inputs, by magic bytes.
package ioutils

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wdm0006/imputer/pkg/errors"
)

// Codec names a compression format.
type Codec int

const (
	None Codec = iota
	Gzip
	Zstd
	LZ4
)

func (c Codec) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// CodecFromPath picks a codec from the file extension.
func CodecFromPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	}
	return None
}

// Sniff detects a codec from the leading bytes of a stream.
func Sniff(head []byte) Codec {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	}
	return None
}

// BaseExt returns the extension of path with any compression suffix removed,
// so "data.csv.zst" yields ".csv".
func BaseExt(path string) string {
	if CodecFromPath(path) != None {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.ToLower(filepath.Ext(path))
}

// OpenMaybeCompressed opens a file path, an s3://bucket/key object or stdin
// ("-") and returns a reader that decompresses transparently.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	var src io.Reader
	closeSrc := func() error { return nil }
	loc, remote, err := ParseS3(path)
	if err != nil {
		return nil, err
	}
	switch {
	case remote:
		obj, err := openS3(context.Background(), loc)
		if err != nil {
			return nil, err
		}
		src = obj
		closeSrc = obj.Close
	case path == "-" || path == "":
		src = os.Stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		src = f
		closeSrc = f.Close
	}
	br := bufio.NewReader(src)
	codec := CodecFromPath(path)
	if codec == None {
		head, _ := br.Peek(4)
		codec = Sniff(head)
	}
	rc, err := NewReader(br, codec)
	if err != nil {
		_ = closeSrc()
		return nil, err
	}
	return readCloser{Reader: rc, closeFn: func() error {
		_ = rc.Close()
		return closeSrc()
	}}, nil
}

// NewReader wraps r with a decompressor for codec.
func NewReader(r io.Reader, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "gzip reader")
		}
		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "zstd reader")
		}
		return zr.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return io.NopCloser(r), nil
}

// CreateMaybeCompressed creates a file, an s3://bucket/key object or stdout
// ("-") and returns a writer compressed according to the path extension.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		// stdout: cannot detect compression; write plain
		return nopWriteCloser{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	var f io.WriteCloser
	loc, remote, err := ParseS3(path)
	switch {
	case err != nil:
		return nil, err
	case remote:
		if f, err = createS3(context.Background(), loc); err != nil {
			return nil, err
		}
	default:
		if f, err = os.Create(path); err != nil {
			return nil, errors.Wrapf(err, "create %s", path)
		}
	}
	bw := bufio.NewWriter(f)
	zw, err := NewWriter(bw, CodecFromPath(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return writeCloser{Writer: zw, closeFn: func() error {
		if err := zw.Close(); err != nil {
			_ = f.Close()
			return err
		}
		if err := bw.Flush(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}}, nil
}

// NewWriter wraps w with a compressor for codec. Closing the result flushes
// the compressor but leaves w open.
func NewWriter(w io.Writer, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errors.Wrap(err, "zstd writer")
		}
		return zw, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nopWriteCloser{Writer: w}, nil
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return errors.New("no closeFn")
}

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	if w.closeFn != nil {
		return w.closeFn()
	}
	return errors.New("no closeFn")
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error {
	if bw, ok := n.Writer.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}
