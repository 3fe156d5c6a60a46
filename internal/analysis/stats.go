// Package analysis implements the data-interaction pipeline over a
// loaded table: summary statistics, sorting, range filtering and the
// reductions behind charts.
package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/datalens-cli/internal/table"
)

// Summary holds the basic statistics of one numeric column.
// Missing cells are skipped. With no values every statistic is NaN;
// with a single value Std is NaN.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Median float64
	Std    float64 // sample standard deviation (n-1)
}

// Describe computes mean, median and sample standard deviation for a
// numeric column.
func Describe(t *table.Table, column string) (Summary, error) {
	c, err := t.NumericColumn(column)
	if err != nil {
		return Summary{}, err
	}
	vals := presentValues(c)
	s := Summary{Column: column, Count: len(vals), Mean: math.NaN(), Median: math.NaN(), Std: math.NaN()}
	if len(vals) == 0 {
		return s, nil
	}
	// Welford
	var mean, m2 float64
	for i, x := range vals {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	s.Mean = mean
	if len(vals) > 1 {
		s.Std = math.Sqrt(m2 / float64(len(vals)-1))
	}
	sort.Float64s(vals)
	s.Median = quantile(vals, 0.5)
	return s, nil
}

// presentValues returns a fresh slice of the non-missing values of c.
func presentValues(c *table.Column) []float64 {
	out := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
