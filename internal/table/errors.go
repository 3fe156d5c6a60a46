package table

import (
	"errors"
	"fmt"
)

// LoadError indicates the dataset file could not be read or parsed.
// It is the only fatal error kind: without a table nothing else can run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load dataset: %v", e.Err)
	}
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// InvalidColumnError indicates a selection references a column that is
// missing or has the wrong kind for the operation.
type InvalidColumnError struct {
	Column string
	Reason string // "not found", "not numeric", ...
}

func (e *InvalidColumnError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid column %q", e.Column)
	}
	return fmt.Sprintf("invalid column %q: %s", e.Column, e.Reason)
}

// InvalidRangeError indicates filter bounds that are inverted or fall
// outside the column's actual values.
type InvalidRangeError struct {
	Column string
	Min    float64
	Max    float64
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%g, %g] for column %q: %s", e.Min, e.Max, e.Column, e.Reason)
}

// NonNumericAxisError indicates a chart axis that must be numeric is not.
type NonNumericAxisError struct {
	Axis   string // "x" or "y"
	Column string
}

func (e *NonNumericAxisError) Error() string {
	return fmt.Sprintf("%s axis column %q is not numeric", e.Axis, e.Column)
}

// InvalidChartKindError indicates an unknown chart kind.
type InvalidChartKindError struct{ Kind string }

func (e *InvalidChartKindError) Error() string {
	return fmt.Sprintf("unknown chart kind %q (use bar, line, scatter or pie)", e.Kind)
}

// IsRecoverable reports whether err is a validation error that should be
// shown to the user instead of halting the program.
func IsRecoverable(err error) bool {
	var (
		colErr   *InvalidColumnError
		rangeErr *InvalidRangeError
		axisErr  *NonNumericAxisError
		kindErr  *InvalidChartKindError
	)
	return errors.As(err, &colErr) || errors.As(err, &rangeErr) ||
		errors.As(err, &axisErr) || errors.As(err, &kindErr)
}

func notFound(name string) error {
	return &InvalidColumnError{Column: name, Reason: "not found"}
}
