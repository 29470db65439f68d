// Package csvio reads and writes frames as delimited text.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	iox "github.com/wdm0006/imputer/pkg/io/ioutils"
)

// DefaultNAValues are the tokens read as missing in addition to empty cells.
var DefaultNAValues = []string{"NA", "N/A", "NaN", "nan", "null", "NULL"}

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records
	// NullEmpty reads missing cells as Null instead of NaN.
	NullEmpty bool
	// NAValues replaces DefaultNAValues when non-nil; an empty slice keeps
	// only empty cells as missing.
	NAValues []string
}

type Reader struct {
	r      *csv.Reader
	closer io.Closer
	opt    ReaderOptions
	na     map[string]struct{}
	buf    [][]string
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// Open opens a possibly compressed CSV file, or stdin for "-".
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	r := NewReaderFrom(rc, opt)
	r.closer = rc
	return r, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
// With a zero Delimiter the first 4KiB are sniffed.
func NewReaderFrom(src io.Reader, opt ReaderOptions) *Reader {
	br := bufio.NewReaderSize(src, 64<<10)
	rr := csv.NewReader(br)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		rr.Comma = d
		rr.LazyQuotes = lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	na := opt.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	set := make(map[string]struct{}, len(na))
	for _, s := range na {
		set[s] = struct{}{}
	}
	return &Reader{r: rr, opt: opt, na: set}
}

// Close releases the underlying file when the reader was opened by path.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Read opens path, infers its schema and loads every row.
func Read(path string, opt ReaderOptions) (*frame.Frame, error) {
	r, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	schema, _, err := r.InferSchema()
	if err != nil {
		return nil, errors.Wrapf(err, "infer schema of %s", path)
	}
	return r.ReadAll(schema)
}

// InferSchema reads header (if present) and samples rows to determine column kinds.
func (r *Reader) InferSchema() (frame.Schema, []string, error) {
	var names []string
	rec, err := r.r.Read()
	if err != nil {
		return frame.Schema{}, nil, err
	}
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		}
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
		rec, err = r.r.Read()
		if err == io.EOF {
			rec = nil
		} else if err != nil {
			return frame.Schema{}, nil, err
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	var sample [][]string
	if rec != nil {
		sample = append(sample, copyRecord(rec))
	}
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for len(sample) > 0 && len(sample) < max {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Schema{}, nil, err
		}
		sample = append(sample, copyRecord(rr))
	}

	kinds := r.inferKinds(sample, len(names))
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = frame.ColumnSchema{Name: names[i], Type: kinds[i]}
	}
	// retain sampled rows for subsequent reads
	r.buf = append(r.buf, sample...)
	return schema, names, nil
}

// ReadAll loads the rest of the CSV into a Frame.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f := frame.NewFrame(schema)
	for {
		rec, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// next returns buffered sample rows first, then rows from the stream.
func (r *Reader) next() ([]string, error) {
	if len(r.buf) > 0 {
		rec := r.buf[0]
		r.buf = r.buf[1:]
		return rec, nil
	}
	return r.r.Read()
}

func (r *Reader) appendRecord(f *frame.Frame, schema frame.Schema, rec []string) error {
	if len(rec) > len(schema.Columns) {
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record at row %d: need %d fields, got %d", f.Rows(), len(schema.Columns), len(rec))
		}
	}
	vals := make([]frame.Value, len(schema.Columns))
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			r.shortRecords++
			if r.opt.Strict {
				return fmt.Errorf("csv short record at row %d: need %d fields, got %d", f.Rows(), len(schema.Columns), len(rec))
			}
			vals[i] = r.missing()
			continue
		}
		vals[i] = r.parseCell(cs.Type, rec[i])
	}
	return f.AppendRow(vals...)
}

func (r *Reader) missing() frame.Value {
	if r.opt.NullEmpty {
		return frame.Null()
	}
	return frame.NaN()
}

func (r *Reader) isNA(val string) bool {
	if val == "" {
		return true
	}
	_, ok := r.na[val]
	return ok
}

// parseCell converts one field. Text that does not parse as the column kind
// is kept as a string cell so foreign markers such as "?" survive.
func (r *Reader) parseCell(kind frame.Kind, raw string) frame.Value {
	val := strings.ToValidUTF8(strings.TrimSpace(raw), "?")
	if r.isNA(val) {
		return r.missing()
	}
	switch kind {
	case frame.KindFloat:
		if x, err := strconv.ParseFloat(val, 64); err == nil {
			return frame.Float(x)
		}
	case frame.KindInt:
		if x, err := strconv.ParseInt(val, 10, 64); err == nil {
			return frame.Int(x)
		}
		if x, err := strconv.ParseFloat(val, 64); err == nil {
			return frame.Float(x)
		}
	case frame.KindBool:
		if x, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			return frame.Bool(x)
		}
	case frame.KindTime:
		if x, err := time.Parse(time.RFC3339, val); err == nil {
			return frame.Time(x)
		}
	}
	return frame.String(val)
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

func (r *Reader) inferKinds(rows [][]string, ncol int) []frame.Kind {
	kinds := make([]frame.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, boolean, str, missing := 0, 0, 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if r.isNA(v) {
				missing++
				continue
			}
			if numre.MatchString(v) {
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
				continue
			}
			if lv := strings.ToLower(v); lv == "true" || lv == "false" {
				boolean++
				continue
			}
			str++
		}
		switch {
		case num == 0 && str == 0 && boolean == 0:
			// nothing but missing cells: a NaN column
			kinds[c] = frame.KindFloat
		case num > str+boolean:
			// NaN cells need a float column
			if integer == num && (missing == 0 || r.opt.NullEmpty) {
				kinds[c] = frame.KindInt
			} else {
				kinds[c] = frame.KindFloat
			}
		case boolean > 0 && num == 0 && str == 0:
			kinds[c] = frame.KindBool
		default:
			kinds[c] = frame.KindString
		}
	}
	return kinds
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	// only the first line decides; quoted fields may contain anything
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	return rune(best), quoteCount%2 != 0
}

func copyRecord(rec []string) []string {
	out := make([]string, len(rec))
	copy(out, rec)
	return out
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
