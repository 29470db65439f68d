package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/wdm0006/imputer/pkg/errors"
	iox "github.com/wdm0006/imputer/pkg/io/ioutils"
	"github.com/wdm0006/imputer/pkg/transform/impute"
)

// IOConfig names a table on disk. Type is csv, jsonl or parquet and defaults
// to the path extension.
type IOConfig struct {
	Path      string `json:"path" yaml:"path" toml:"path"`
	Type      string `json:"type" yaml:"type" toml:"type"`
	HasHeader *bool  `json:"has_header" yaml:"has_header" toml:"has_header"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
}

type ImputerConfig struct {
	NumericOnly         *bool  `json:"numeric_only" yaml:"numeric_only" toml:"numeric_only"`
	MissingValues       any    `json:"missing_values" yaml:"missing_values" toml:"missing_values"`
	Strategy            string `json:"strategy" yaml:"strategy" toml:"strategy"`
	CategoricalStrategy string `json:"categorical_strategy" yaml:"categorical_strategy" toml:"categorical_strategy"`
	FillValue           any    `json:"fill_value" yaml:"fill_value" toml:"fill_value"`
	Copy                *bool  `json:"copy" yaml:"copy" toml:"copy"`
	Workers             int    `json:"workers" yaml:"workers" toml:"workers"`
}

type Config struct {
	Input   IOConfig      `json:"input" yaml:"input" toml:"input"`
	Fit     *IOConfig     `json:"fit" yaml:"fit" toml:"fit"`
	Output  IOConfig      `json:"output" yaml:"output" toml:"output"`
	Imputer ImputerConfig `json:"imputer" yaml:"imputer" toml:"imputer"`
	// Trim strips whitespace from string cells before fitting.
	Trim bool `json:"trim" yaml:"trim" toml:"trim"`
	// MissingAliases are extra spellings rewritten to the missing marker.
	MissingAliases []any `json:"missing_aliases" yaml:"missing_aliases" toml:"missing_aliases"`
	// RequireComplete fails the run when any output cell is still missing,
	// including cells of columns skipped under numeric_only.
	RequireComplete bool   `json:"require_complete" yaml:"require_complete" toml:"require_complete"`
	LogLevel        string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// loadConfig decodes a JSON, YAML or TOML file chosen by extension.
func loadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		err = json.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return nil, errors.NewConfigurationError("config", "unsupported config format", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	if cfg.Input.Path == "" {
		return nil, errors.NewConfigurationError("input.path", "required", "")
	}
	return &cfg, nil
}

// imputeConfig maps the file settings onto impute.Config, starting from the
// library defaults.
func (c ImputerConfig) imputeConfig() (impute.Config, error) {
	cfg := impute.DefaultConfig()
	if c.NumericOnly != nil {
		cfg.NumericOnly = *c.NumericOnly
	}
	if c.Copy != nil {
		cfg.Copy = *c.Copy
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if c.Strategy != "" {
		s, err := impute.ParseStrategy(c.Strategy)
		if err != nil {
			return cfg, err
		}
		cfg.Strategy = s
	}
	if c.CategoricalStrategy != "" {
		s, err := impute.ParseStrategy(c.CategoricalStrategy)
		if err != nil {
			return cfg, err
		}
		cfg.CategoricalStrategy = s
	}
	m, err := parseMarker(c.MissingValues)
	if err != nil {
		return cfg, err
	}
	cfg.Missing = m
	cfg.FillValue = c.FillValue
	return cfg, nil
}

// parseMarker reads missing_values: absent or "nan" is NaN, "null" or
// "none" is Null, anything else is that scalar.
func parseMarker(v any) (impute.Marker, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "nan":
			return impute.MissingNaN(), nil
		case "null", "none":
			return impute.MissingNull(), nil
		}
	}
	if v == nil {
		return impute.MissingNaN(), nil
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return impute.MissingNaN(), nil
	}
	m, err := impute.MissingValue(v)
	if err != nil {
		return m, errors.NewConfigurationError("missing_values", err.Error(), v)
	}
	return m, nil
}

// format returns the table type, falling back to the path extension.
func (c IOConfig) format() string {
	if c.Type != "" {
		return strings.ToLower(c.Type)
	}
	switch iox.BaseExt(c.Path) {
	case ".jsonl", ".ndjson", ".json":
		return "jsonl"
	case ".parquet", ".pq":
		return "parquet"
	}
	return "csv"
}

func (c IOConfig) header() bool { return c.HasHeader == nil || *c.HasHeader }

func (c IOConfig) delimiter() rune {
	if c.Delimiter == "" {
		return 0
	}
	if c.Delimiter == `\t` {
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}
