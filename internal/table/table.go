// Package table holds the in-memory dataset model: named, typed columns
// of equal length with an explicit schema. Tables are immutable; every
// transformation returns a new Table.
package table

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the declared type of a column, fixed at load time.
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a named, typed sequence of cells.
// Missing numeric cells are NaN; missing categorical cells are "".
type Column struct {
	name string
	kind Kind
	nums []float64
	strs []string
}

// NewNumeric builds a numeric column. The slice is copied.
func NewNumeric(name string, values []float64) *Column {
	cp := make([]float64, len(values))
	copy(cp, values)
	return &Column{name: name, kind: Numeric, nums: cp}
}

// NewCategorical builds a categorical column. The slice is copied.
func NewCategorical(name string, values []string) *Column {
	cp := make([]string, len(values))
	copy(cp, values)
	return &Column{name: name, kind: Categorical, strs: cp}
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.nums)
	}
	return len(c.strs)
}

// Float returns the numeric value at row i; ok is false for missing
// cells and for categorical columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.kind != Numeric {
		return 0, false
	}
	v := c.nums[i]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Missing reports whether the cell at row i holds no value.
func (c *Column) Missing(i int) bool {
	if c.kind == Numeric {
		return math.IsNaN(c.nums[i])
	}
	return c.strs[i] == ""
}

// String renders the cell at row i. Numbers use the shortest form that
// parses back to the same float64; missing cells render as "".
func (c *Column) String(i int) string {
	if c.kind == Numeric {
		return FormatFloat(c.nums[i])
	}
	return c.strs[i]
}

// Floats returns a copy of the numeric values (NaN for missing).
func (c *Column) Floats() []float64 {
	cp := make([]float64, len(c.nums))
	copy(cp, c.nums)
	return cp
}

func (c *Column) take(idx []int) *Column {
	out := &Column{name: c.name, kind: c.kind}
	if c.kind == Numeric {
		out.nums = make([]float64, len(idx))
		for k, i := range idx {
			out.nums[k] = c.nums[i]
		}
		return out
	}
	out.strs = make([]string, len(idx))
	for k, i := range idx {
		out.strs[k] = c.strs[i]
	}
	return out
}

// FormatFloat renders v for display and export.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Field describes one column of a schema.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the ordered list of column fields.
type Schema []Field

// Names returns all column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// Numeric returns the names of numeric columns in order.
func (s Schema) Numeric() []string {
	var out []string
	for _, f := range s {
		if f.Kind == Numeric {
			out = append(out, f.Name)
		}
	}
	return out
}

// Lookup returns the field for name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Table is an immutable set of equal-length named columns.
type Table struct {
	name  string
	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a table. Column names must be unique and all columns
// must have the same length.
func New(name string, cols ...*Column) (*Table, error) {
	t := &Table{name: name, cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.name)
		}
		t.index[c.name] = i
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.name, c.Len(), t.rows)
		}
	}
	return t, nil
}

// Name is the dataset name, usually the source file's base name.
func (t *Table) Name() string { return t.name }

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Width returns the column count.
func (t *Table) Width() int { return len(t.cols) }

// Schema returns the declared column names and kinds.
func (t *Table) Schema() Schema {
	s := make(Schema, len(t.cols))
	for i, c := range t.cols {
		s[i] = Field{Name: c.name, Kind: c.kind}
	}
	return s
}

// Columns returns the columns in order. The returned slice is a copy;
// columns themselves are read-only.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Column returns the named column or an *InvalidColumnError.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, notFound(name)
	}
	return t.cols[i], nil
}

// NumericColumn returns the named column if it exists and is numeric.
func (t *Table) NumericColumn(name string) (*Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != Numeric {
		return nil, &InvalidColumnError{Column: name, Reason: "not numeric"}
	}
	return c, nil
}

// Row renders row i as strings, one per column.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.String(i)
	}
	return out
}

// Take returns a new table holding the rows at idx, in that order.
func (t *Table) Take(idx []int) *Table {
	cols := make([]*Column, len(t.cols))
	for j, c := range t.cols {
		cols[j] = c.take(idx)
	}
	return &Table{name: t.name, cols: cols, index: t.index, rows: len(idx)}
}

// Head returns the first n rows (or fewer).
func (t *Table) Head(n int) *Table {
	if n < 0 || n > t.rows {
		n = t.rows
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Take(idx)
}
