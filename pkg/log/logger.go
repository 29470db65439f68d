// Package log builds the zerolog loggers used by the imputer and its tools.
package log

import (
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wdm0006/imputer/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
	DetailAttrKey     = "detail"
)

// ParseLevel maps a textual level to a zerolog level. An empty string is info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, errors.NewConfigurationError("log_level", "unknown log level", level)
	}
}

// New returns a timestamped JSON logger writing to w.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// NewConsole returns a human readable logger writing to w.
func NewConsole(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	cw := zerolog.ConsoleWriter{Out: w, NoColor: true}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger(), nil
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger { return zerolog.Nop() }

// Error starts an error-level event carrying err, its typed fields when the
// error (or one it wraps) knows how to marshal itself, and its stack trace.
func Error(l *zerolog.Logger, err error) *zerolog.Event {
	ev := l.Error().Err(err)
	var m zerolog.LogObjectMarshaler
	if errors.As(err, &m) {
		ev = ev.Object(DetailAttrKey, m)
	}
	if st := errors.Stack(err); st != "" {
		ev = ev.Str(StacktraceAttrKey, st)
	}
	return ev
}
