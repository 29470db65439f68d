// Command benchimputer measures streaming imputation throughput on generated
// data with a configurable share of missing cells.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/wdm0006/imputer/pkg/frame"
	ilog "github.com/wdm0006/imputer/pkg/log"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

type genSource struct {
	schema frame.Schema
	remain int
	chunk  int
	missp  float64
	rnd    *rand.Rand
}

func (g *genSource) Next() (*frame.Frame, error) {
	if g.remain <= 0 {
		return nil, io.EOF
	}
	n := min(g.chunk, g.remain)
	g.remain -= n
	f := frame.NewFrame(g.schema)
	row := make([]frame.Value, len(g.schema.Columns))
	for i := 0; i < n; i++ {
		for c, cs := range g.schema.Columns {
			if g.rnd.Float64() < g.missp {
				row[c] = frame.NaN()
				continue
			}
			switch cs.Type {
			case frame.KindFloat:
				row[c] = frame.Float(g.rnd.Float64() * 100)
			case frame.KindInt:
				row[c] = frame.Int(int64(g.rnd.Intn(100)))
			default:
				row[c] = frame.String(fmt.Sprintf("level%d", g.rnd.Intn(8)))
			}
		}
		if err := f.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

type blackholeSink struct{ rows int }

func (b *blackholeSink) Write(f *frame.Frame) error { b.rows += f.Rows(); return nil }
func (b *blackholeSink) Close() error               { return nil }

func main() {
	var (
		rows     = flag.Int("rows", 5_000_000, "total rows to generate")
		chunk    = flag.Int("chunk", 100_000, "rows per chunk")
		fcols    = flag.Int("float-cols", 4, "number of float columns")
		icols    = flag.Int("int-cols", 2, "number of int columns")
		scols    = flag.Int("string-cols", 2, "number of string columns")
		missp    = flag.Float64("missing", 0.05, "probability of a missing value in each cell")
		strategy = flag.String("strategy", "mean", "mean, median, most_frequent or constant")
		workers  = flag.Int("workers", runtime.GOMAXPROCS(0), "columns fitted in parallel")
		jsonOut  = flag.Bool("json", false, "emit JSON summary")
		seed     = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()
	logger, _ := ilog.NewConsole(os.Stderr, "info")

	var cols []frame.ColumnSchema
	for i := 0; i < *fcols; i++ {
		cols = append(cols, frame.ColumnSchema{Name: fmt.Sprintf("f%d", i), Type: frame.KindFloat})
	}
	for i := 0; i < *icols; i++ {
		cols = append(cols, frame.ColumnSchema{Name: fmt.Sprintf("i%d", i), Type: frame.KindInt})
	}
	for i := 0; i < *scols; i++ {
		cols = append(cols, frame.ColumnSchema{Name: fmt.Sprintf("s%d", i), Type: frame.KindString})
	}
	schema := frame.Schema{Columns: cols}

	s, err := impute.ParseStrategy(*strategy)
	if err != nil {
		ilog.Error(&logger, err).Msg("bad strategy")
		os.Exit(2)
	}
	cfg := impute.DefaultConfig()
	cfg.NumericOnly = false
	cfg.Strategy = s
	cfg.CategoricalStrategy = impute.StrategyMostFrequent
	cfg.Workers = *workers
	// transform in place: the chunk is discarded after the sink anyway
	cfg.Copy = false
	im, err := impute.New(cfg)
	if err != nil {
		ilog.Error(&logger, err).Msg("configure imputer")
		os.Exit(2)
	}

	src := &genSource{schema: schema, remain: *rows, chunk: *chunk, missp: *missp, rnd: rand.New(rand.NewSource(*seed))}
	sink := &blackholeSink{}

	// fit on one generated chunk; the streamed rows are generated afresh
	fitStart := time.Now()
	first, err := src.Next()
	if err != nil {
		ilog.Error(&logger, err).Msg("generate fit chunk")
		os.Exit(1)
	}
	if _, err := im.Fit(first); err != nil {
		ilog.Error(&logger, err).Msg("fit")
		os.Exit(1)
	}
	fitElapsed := time.Since(fitStart)
	src.remain += first.Rows()
	p := frame.NewPipeline().Add(im)

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	if err := frame.RunStream(context.Background(), p, src, sink); err != nil {
		ilog.Error(&logger, err).Msg("stream")
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(sink.rows) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  sink.rows,
		"fit_ms":                fitElapsed.Milliseconds(),
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"cols":                  map[string]int{"float": *fcols, "int": *icols, "string": *scols},
		"chunk":                 *chunk,
		"missing_prob":          *missp,
		"strategy":              s.String(),
		"workers":               *workers,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d\n", sink.rows)
	fmt.Printf("Fit (first chunk): %s\n", fitElapsed)
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
