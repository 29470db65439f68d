package impute

import (
	"fmt"
	"strings"

	"github.com/wdm0006/imputer/pkg/errors"
	"github.com/wdm0006/imputer/pkg/frame"
)

// Entry is the fitted statistic of one column.
type Entry struct {
	Column string
	Kind   ColumnKind
	Fill   frame.Value
}

// FittedState maps column names to fill values. It is built by a single Fit
// and never modified afterwards, so it can be read concurrently.
type FittedState struct {
	entries map[string]Entry
	order   []string
	skipped map[string]struct{}
	skipOrd []string
}

func newFittedState(entries []Entry, skipped []string) *FittedState {
	s := &FittedState{
		entries: make(map[string]Entry, len(entries)),
		order:   make([]string, 0, len(entries)),
		skipped: make(map[string]struct{}, len(skipped)),
		skipOrd: append([]string(nil), skipped...),
	}
	for _, e := range entries {
		s.entries[e.Column] = e
		s.order = append(s.order, e.Column)
	}
	for _, name := range skipped {
		s.skipped[name] = struct{}{}
	}
	return s
}

// Lookup returns the entry for column. A nil state is unfitted.
func (s *FittedState) Lookup(column string) (Entry, error) {
	if s == nil {
		return Entry{}, errors.NewNotFittedError("FittedState", "Lookup")
	}
	e, ok := s.entries[column]
	if !ok {
		return Entry{}, errors.NewUnknownColumnError(column)
	}
	return e, nil
}

// Columns lists the fitted columns in fit order.
func (s *FittedState) Columns() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Skipped lists the categorical columns left out under numeric-only mode.
func (s *FittedState) Skipped() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.skipOrd...)
}

func (s *FittedState) WasSkipped(column string) bool {
	if s == nil {
		return false
	}
	_, ok := s.skipped[column]
	return ok
}

func (s *FittedState) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *FittedState) String() string {
	if s == nil {
		return "FittedState(unfitted)"
	}
	parts := make([]string, 0, len(s.order))
	for _, name := range s.order {
		e := s.entries[name]
		parts = append(parts, fmt.Sprintf("%s=%s(%s)", name, e.Fill, e.Kind))
	}
	return "FittedState{" + strings.Join(parts, ", ") + "}"
}
