package analysis

import (
	"math"

	"github.com/KaramelBytes/datalens-cli/internal/table"
)

// Range is an inclusive pair of numeric bounds.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether Min <= v <= Max.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Bounds returns the actual [min, max] of a numeric column. It fails
// with *table.InvalidRangeError when the column holds no values.
func Bounds(t *table.Table, column string) (Range, error) {
	c, err := t.NumericColumn(column)
	if err != nil {
		return Range{}, err
	}
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Float(i)
		if !ok {
			continue
		}
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	if r.Min > r.Max {
		return Range{}, &table.InvalidRangeError{Column: column, Min: math.NaN(), Max: math.NaN(), Reason: "column has no values"}
	}
	return r, nil
}

// Filter returns a new table with the rows whose value in column lies
// within r, inclusive at both ends. Missing cells never match.
// Both bounds must lie within the column's actual range and Min <= Max.
func Filter(t *table.Table, column string, r Range) (*table.Table, error) {
	c, err := t.NumericColumn(column)
	if err != nil {
		return nil, err
	}
	if err := validateRange(t, column, r); err != nil {
		return nil, err
	}
	var idx []int
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Float(i); ok && r.Contains(v) {
			idx = append(idx, i)
		}
	}
	return t.Take(idx), nil
}

func validateRange(t *table.Table, column string, r Range) error {
	rangeErr := func(reason string) error {
		return &table.InvalidRangeError{Column: column, Min: r.Min, Max: r.Max, Reason: reason}
	}
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return rangeErr("bounds must be numbers")
	}
	if r.Min > r.Max {
		return rangeErr("min is greater than max")
	}
	b, err := Bounds(t, column)
	if err != nil {
		return rangeErr("column has no values")
	}
	if !b.Contains(r.Min) || !b.Contains(r.Max) {
		return rangeErr("bounds outside column range " + table.FormatFloat(b.Min) + " to " + table.FormatFloat(b.Max))
	}
	return nil
}
