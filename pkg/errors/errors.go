// Package errors defines the error kinds raised by the imputer and thin
// wrappers over github.com/cockroachdb/errors so callers get stack traces.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NotFittedError is returned when Transform or a state lookup runs before Fit.
type NotFittedError struct {
	Component string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("imputer: %s: not fitted yet, call Fit before %s", e.Component, e.Method)
}

func (e *NotFittedError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("component", e.Component).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

func NewNotFittedError(component, method string) error {
	return errors.WithStack(&NotFittedError{Component: component, Method: method})
}

// UnknownColumnError is returned when a transform-time column was not seen at fit time.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("imputer: column %q was not present when the imputer was fitted", e.Column)
}

func (e *UnknownColumnError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("column", e.Column).Str("type", "UnknownColumnError")
}

func NewUnknownColumnError(column string) error {
	return errors.WithStack(&UnknownColumnError{Column: column})
}

// EmptyColumnError is returned when a statistic needs at least one non-missing value.
type EmptyColumnError struct {
	Column   string
	Strategy string
}

func (e *EmptyColumnError) Error() string {
	return fmt.Sprintf("imputer: column %q has no non-missing values to compute %s", e.Column, e.Strategy)
}

func (e *EmptyColumnError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("column", e.Column).
		Str("strategy", e.Strategy).
		Str("type", "EmptyColumnError")
}

func NewEmptyColumnError(column, strategy string) error {
	return errors.WithStack(&EmptyColumnError{Column: column, Strategy: strategy})
}

// TypeMismatchError is returned when a strategy cannot be applied to the
// values of a column, e.g. mean over strings.
type TypeMismatchError struct {
	Column   string
	Strategy string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("imputer: column %q: strategy %s cannot use a %s value", e.Column, e.Strategy, e.Got)
}

func (e *TypeMismatchError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("column", e.Column).
		Str("strategy", e.Strategy).
		Str("got", e.Got).
		Str("type", "TypeMismatchError")
}

func NewTypeMismatchError(column, strategy, got string) error {
	return errors.WithStack(&TypeMismatchError{Column: column, Strategy: strategy, Got: got})
}

// ConfigurationError is returned when an imputer is constructed with invalid settings.
type ConfigurationError struct {
	Param  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("imputer: invalid %s: %s (got: %v)", e.Param, e.Reason, e.Value)
}

func (e *ConfigurationError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("param", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

func NewConfigurationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ConfigurationError{Param: param, Reason: reason, Value: value})
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

func WithStack(err error) error {
	return errors.WithStack(err)
}

// Stack returns the formatted stack trace recorded on err, if any.
func Stack(err error) string {
	if d := errors.GetSafeDetails(err).SafeDetails; len(d) > 0 {
		return d[0]
	}
	return ""
}
