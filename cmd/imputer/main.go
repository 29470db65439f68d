// Command imputer fills missing values in a csv, jsonl or parquet table using
// statistics learned from the same table or from a separate fit table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
	ilog "github.com/wdm0006/imputer/pkg/log"
	"github.com/wdm0006/imputer/pkg/profile"
	"github.com/wdm0006/imputer/pkg/transform/impute"
	"github.com/wdm0006/imputer/pkg/transform/standardize"
	"github.com/wdm0006/imputer/pkg/transform/validate"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	chunkSize  int
	profile    string
	plotPath   string
	logLevel   string
	topK       int
}

// run executes the command and returns the process exit code: 0 on success,
// 1 on runtime failures and 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("imputer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opt options
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.StringVar(&opt.configPath, "config", "", "Path to imputer config (json, yaml or toml)")
	fs.IntVar(&opt.chunkSize, "chunk-size", 0, "Transform the input in chunks of this many rows. 0 reads it whole.")
	fs.StringVar(&opt.profile, "profile", "", "Print a missing-value profile of the input: text or json")
	fs.StringVar(&opt.plotPath, "plot", "", "Save a bar chart of missing values per column (png, svg, pdf)")
	fs.StringVar(&opt.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	fs.IntVar(&opt.topK, "top", 5, "Most frequent values listed per column in the profile")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, "imputer", version)
		return 0
	}
	if opt.configPath == "" {
		fmt.Fprintln(stderr, "no config provided; nothing to do. try --config <file> or --version")
		return 2
	}
	if opt.profile != "" && opt.profile != "text" && opt.profile != "json" {
		fmt.Fprintf(stderr, "unsupported profile format %q\n", opt.profile)
		return 2
	}

	cfg, err := loadConfig(opt.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}
	level := cfg.LogLevel
	if opt.logLevel != "" {
		level = opt.logLevel
	}
	logger, err := ilog.NewConsole(stderr, level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if err := execute(ctx, cfg, opt, stdout, logger); err != nil {
		ilog.Error(&logger, err).Msg("imputer failed")
		return exitCode(err)
	}
	return 0
}

// exitCode is 2 for configuration errors and 1 for everything else.
func exitCode(err error) int {
	var ce *errors.ConfigurationError
	if errors.As(err, &ce) {
		return 2
	}
	return 1
}

func execute(ctx context.Context, cfg *Config, opt options, stdout io.Writer, logger zerolog.Logger) error {
	icfg, err := cfg.Imputer.imputeConfig()
	if err != nil {
		return err
	}
	im, err := impute.New(icfg, impute.WithLogger(logger))
	if err != nil {
		return err
	}
	nullMissing := icfg.Missing.Value().IsNull()

	var input *frame.Frame
	if opt.chunkSize <= 0 || cfg.Fit == nil {
		// the fit pass needs the whole input unless a fit table is given
		if input, err = readTable(cfg.Input, nullMissing); err != nil {
			return err
		}
	}
	var prof *profile.Collector
	if opt.chunkSize <= 0 && (opt.profile != "" || opt.plotPath != "") {
		// profile the cells as read, before any step rewrites them
		prof = profile.Profile(input, opt.topK, icfg.Missing)
	}
	fitFrame := input
	if cfg.Fit != nil {
		if fitFrame, err = readTable(*cfg.Fit, nullMissing); err != nil {
			return err
		}
	}
	if e := logger.Debug(); e.Enabled() {
		d := zerolog.Dict()
		for name, rows := range impute.MissingMasks(fitFrame, icfg.Missing) {
			d.Uint64(name, rows.GetCardinality())
		}
		e.Int("rows", fitFrame.Rows()).Dict("missing", d).Msg("fit table")
	}
	p, err := buildPipeline(cfg, im)
	if err != nil {
		return err
	}
	fitted, err := p.Fit(ctx, fitFrame)
	if err != nil {
		return err
	}
	logger.Info().
		Str("strategy", icfg.Strategy.String()).
		Stringer("missing", icfg.Missing).
		Int("columns", im.State().Len()).
		Strs("skipped", im.State().Skipped()).
		Msg("fitted")

	if opt.chunkSize > 0 {
		src, err := openStream(cfg.Input, opt.chunkSize, nullMissing)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		var source frame.ChunkSource = src
		if opt.profile != "" || opt.plotPath != "" {
			prof = profile.NewCollector(src.Schema(), opt.topK, icfg.Missing)
			source = &profilingSource{src: src, c: prof}
		}
		sink, err := createSink(cfg.Output, im.OutputSchema(src.Schema()))
		if err != nil {
			return err
		}
		counter := &countingSink{sink: sink}
		if err := frame.RunStream(ctx, p, source, counter); err != nil {
			return err
		}
		logger.Info().Int("rows", counter.rows).Str("output", cfg.Output.Path).Msg("written")
	} else {
		out := fitted
		if cfg.Fit != nil {
			if out, err = p.Run(ctx, input); err != nil {
				return err
			}
		}
		if err := writeTable(cfg.Output, out); err != nil {
			return err
		}
		logger.Info().Int("rows", out.Rows()).Str("output", cfg.Output.Path).Msg("written")
	}

	if prof == nil {
		return nil
	}
	switch opt.profile {
	case "text":
		fmt.Fprint(stdout, prof.ReportText())
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(prof.ReportJSON()); err != nil {
			return errors.Wrap(err, "encode profile")
		}
	}
	if opt.plotPath != "" {
		if err := prof.SavePlot(opt.plotPath); err != nil {
			return err
		}
	}
	return nil
}

// buildPipeline places the optional cleanup steps around the imputer.
func buildPipeline(cfg *Config, im *impute.Imputer) (*frame.Pipeline, error) {
	p := frame.NewPipeline()
	if cfg.Trim {
		p.Add(&standardize.Trim{})
	}
	if len(cfg.MissingAliases) > 0 {
		a, err := standardize.NewAliases(im.Config().Missing, cfg.MissingAliases)
		if err != nil {
			return nil, err
		}
		p.Add(a)
	}
	p.Add(im)
	if cfg.RequireComplete {
		p.Add(&validate.Complete{Missing: im.Config().Missing})
	}
	return p, nil
}

// profilingSource feeds every chunk to a profile collector before handing
// it on, so the profile sees the cells as read.
type profilingSource struct {
	src frame.ChunkSource
	c   *profile.Collector
}

func (p *profilingSource) Next() (*frame.Frame, error) {
	f, err := p.src.Next()
	if err != nil {
		return nil, err
	}
	p.c.ConsumeFrame(f)
	return f, nil
}

type countingSink struct {
	sink frame.ChunkSink
	rows int
}

func (c *countingSink) Write(f *frame.Frame) error {
	c.rows += f.Rows()
	return c.sink.Write(f)
}

func (c *countingSink) Close() error { return c.sink.Close() }
