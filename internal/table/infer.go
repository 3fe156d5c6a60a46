package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberFormat controls how numeric cells are recognised.
type NumberFormat struct {
	// Decimal separator; 0 means '.'.
	Decimal rune
	// Thousands separator stripped before parsing; 0 means none.
	Thousands rune
}

var missingMarkers = map[string]bool{
	"": true, "NA": true, "N/A": true, "NaN": true, "nan": true, "null": true, "NULL": true,
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(raw string) bool {
	return missingMarkers[strings.TrimSpace(raw)]
}

// ParseNumber parses a raw cell as a finite number using the format.
func (f NumberFormat) ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	if raw == "" {
		return 0, false
	}
	if f.Thousands != 0 && f.Thousands != f.Decimal {
		raw = strings.ReplaceAll(raw, string(f.Thousands), "")
	}
	if f.Decimal != 0 && f.Decimal != '.' {
		raw = strings.ReplaceAll(raw, string(f.Decimal), ".")
	}
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, false
	}
	return x, true
}

// FromRecords builds a table from a header row and data records,
// inferring each column's kind. A column is numeric when every
// non-missing cell parses as a number; a column with no values at all is
// numeric. Short records are padded with missing cells. Blank header
// names become "Unnamed: <i>" and repeated names get ".1", ".2" suffixes.
func FromRecords(name string, header []string, records [][]string, nf NumberFormat) (*Table, error) {
	return fromRecords(name, header, records, nf, nil)
}

// fromRecords uses the declared kind from schema for any column it names
// and infers the rest.
func fromRecords(name string, header []string, records [][]string, nf NumberFormat, schema Schema) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	names := uniqueNames(header)
	cols := make([]*Column, len(names))
	for j, colName := range names {
		kind := inferKind(records, j, nf)
		if f, ok := schema.Lookup(colName); ok {
			kind = f.Kind
		}
		if kind == Numeric {
			vals := make([]float64, len(records))
			for i, rec := range records {
				v := cell(rec, j)
				if IsMissing(v) {
					vals[i] = math.NaN()
					continue
				}
				x, ok := nf.ParseNumber(v)
				if !ok {
					return nil, fmt.Errorf("column %q row %d: %q is not a number", colName, i+1, v)
				}
				vals[i] = x
			}
			cols[j] = &Column{name: colName, kind: Numeric, nums: vals}
			continue
		}
		vals := make([]string, len(records))
		for i, rec := range records {
			v := strings.TrimSpace(cell(rec, j))
			if IsMissing(v) {
				v = ""
			}
			vals[i] = v
		}
		cols[j] = &Column{name: colName, kind: Categorical, strs: vals}
	}
	return New(name, cols...)
}

func inferKind(records [][]string, j int, nf NumberFormat) Kind {
	for _, rec := range records {
		v := cell(rec, j)
		if IsMissing(v) {
			continue
		}
		if _, ok := nf.ParseNumber(v); !ok {
			return Categorical
		}
	}
	return Numeric
}

func cell(rec []string, j int) string {
	if j < len(rec) {
		return rec[j]
	}
	return ""
}

func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		base := strings.TrimSpace(h)
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		n := base
		for k := 1; used[n]; k++ {
			n = fmt.Sprintf("%s.%d", base, k)
		}
		used[n] = true
		out[i] = n
	}
	return out
}
