// Package jsonlio reads and writes frames as newline-delimited JSON objects.
package jsonlio

import (
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	iox "github.com/wdm0006/imputer/pkg/io/ioutils"
)

type ReaderOptions struct {
	SampleRows int
	// KeepNull reads JSON null and absent keys as Null instead of NaN.
	KeepNull bool
}

type Reader struct {
	dec    *json.Decoder
	closer io.Closer
	opt    ReaderOptions
	buf    []map[string]any
	keys   []string
}

// Open opens a possibly compressed JSONL file, or stdin for "-".
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	r := NewReaderFrom(rc, opt)
	r.closer = rc
	return r, nil
}

func NewReaderFrom(src io.Reader, opt ReaderOptions) *Reader {
	return &Reader{dec: json.NewDecoder(src), opt: opt}
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Read opens path, infers its schema and loads every record.
func Read(path string, opt ReaderOptions) (*frame.Frame, error) {
	r, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	schema, err := r.InferSchema()
	if err != nil {
		return nil, errors.Wrapf(err, "infer schema of %s", path)
	}
	return r.ReadAll(schema)
}

// InferSchema samples records; columns are the union of their keys in
// sorted order.
func (r *Reader) InferSchema() (frame.Schema, error) {
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	var sample []map[string]any
	keysSet := map[string]struct{}{}
	for len(sample) < max {
		m, err := r.decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Schema{}, err
		}
		sample = append(sample, m)
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	r.buf = append(r.buf, sample...)
	r.keys = make([]string, 0, len(keysSet))
	for k := range keysSet {
		r.keys = append(r.keys, k)
	}
	sort.Strings(r.keys)
	kinds := inferKinds(sample, r.keys)
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(r.keys))}
	for i, k := range r.keys {
		schema.Columns[i] = frame.ColumnSchema{Name: k, Type: kinds[i]}
	}
	return schema, nil
}

func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f := frame.NewFrame(schema)
	for {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := f.AppendRow(r.rowFromMap(schema, m)...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) decode() (map[string]any, error) {
	var m map[string]any
	if err := r.dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "decode jsonl record")
	}
	return m, nil
}

func (r *Reader) next() (map[string]any, error) {
	if len(r.buf) > 0 {
		m := r.buf[0]
		r.buf = r.buf[1:]
		return m, nil
	}
	return r.decode()
}

func (r *Reader) missing() frame.Value {
	if r.opt.KeepNull {
		return frame.Null()
	}
	return frame.NaN()
}

func (r *Reader) rowFromMap(schema frame.Schema, m map[string]any) []frame.Value {
	vals := make([]frame.Value, len(schema.Columns))
	for i, cs := range schema.Columns {
		v, ok := m[cs.Name]
		if !ok || v == nil {
			vals[i] = r.missing()
			continue
		}
		vals[i] = convert(cs.Type, v)
	}
	return vals
}

// convert maps a decoded JSON value onto the column kind. Values that do not
// fit are kept as they are so foreign markers survive.
func convert(kind frame.Kind, v any) frame.Value {
	switch t := v.(type) {
	case float64:
		if kind == frame.KindInt && t == math.Trunc(t) {
			return frame.Int(int64(t))
		}
		return frame.Float(t)
	case bool:
		return frame.Bool(t)
	case string:
		s := strings.TrimSpace(t)
		switch kind {
		case frame.KindFloat:
			if x, err := strconv.ParseFloat(s, 64); err == nil {
				return frame.Float(x)
			}
		case frame.KindInt:
			if x, err := strconv.ParseInt(s, 10, 64); err == nil {
				return frame.Int(x)
			}
		case frame.KindBool:
			if x, err := strconv.ParseBool(strings.ToLower(s)); err == nil {
				return frame.Bool(x)
			}
		case frame.KindTime:
			if x, err := time.Parse(time.RFC3339, s); err == nil {
				return frame.Time(x)
			}
		}
		return frame.String(t)
	default:
		// nested values are kept as their JSON encoding
		b, _ := json.Marshal(t)
		return frame.String(string(b))
	}
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

func inferKinds(sample []map[string]any, keys []string) []frame.Kind {
	kinds := make([]frame.Kind, len(keys))
	for i, k := range keys {
		nNum, nInt, nBool, nStr, nMissing := 0, 0, 0, 0, 0
		for _, m := range sample {
			v, ok := m[k]
			if !ok || v == nil {
				nMissing++
				continue
			}
			switch t := v.(type) {
			case float64:
				nNum++
				if t == math.Trunc(t) {
					nInt++
				}
			case bool:
				nBool++
			case string:
				s := strings.TrimSpace(t)
				if s == "" {
					nStr++
					continue
				}
				if numre.MatchString(s) {
					nNum++
					if !strings.ContainsAny(s, ".eE") {
						nInt++
					}
				} else {
					nStr++
				}
			default:
				nStr++
			}
		}
		switch {
		case nNum == 0 && nBool == 0 && nStr == 0:
			kinds[i] = frame.KindFloat
		case nBool > nNum && nBool >= nStr:
			kinds[i] = frame.KindBool
		case nNum > nStr:
			if nInt == nNum && nMissing == 0 {
				kinds[i] = frame.KindInt
			} else {
				kinds[i] = frame.KindFloat
			}
		default:
			kinds[i] = frame.KindString
		}
	}
	return kinds
}
