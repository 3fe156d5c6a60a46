package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/table"
)

// Report is a markdown-friendly overview of a table, used for the
// project description view.
type Report struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Samples [][]string
}

// ColumnSummary captures the declared kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    table.Kind
	NonNull int
	Missing int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	Unique    int
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

const maxTopValues = 8

// NewReport summarizes t and keeps its first sampleRows rows.
func NewReport(t *table.Table, sampleRows int) *Report {
	rep := &Report{Name: t.Name(), Rows: t.Rows()}
	for _, c := range t.Columns() {
		s := ColumnSummary{Name: c.Name(), Kind: c.Kind()}
		for i := 0; i < c.Len(); i++ {
			if c.Missing(i) {
				s.Missing++
			} else {
				s.NonNull++
			}
		}
		switch c.Kind() {
		case table.Numeric:
			s.Min, s.Max = math.NaN(), math.NaN()
			if b, err := Bounds(t, c.Name()); err == nil {
				s.Min, s.Max = b.Min, b.Max
			}
			if sum, err := Describe(t, c.Name()); err == nil {
				s.Mean, s.Std = sum.Mean, sum.Std
			}
		case table.Categorical:
			s.TopValues, s.Unique = topValues(c)
		}
		rep.Cols = append(rep.Cols, s)
	}
	head := t.Head(sampleRows)
	for i := 0; i < head.Rows(); i++ {
		rep.Samples = append(rep.Samples, head.Row(i))
	}
	return rep
}

func topValues(c *table.Column) ([]CategoryCount, int) {
	counts := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if !c.Missing(i) {
			counts[c.String(i)]++
		}
	}
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > maxTopValues {
		tops = tops[:maxTopValues]
	}
	return tops, len(counts)
}

// Markdown renders a compact report suitable for terminals or docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case table.Numeric:
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
				if !math.IsNaN(c.Std) {
					b.WriteString(fmt.Sprintf(", std %.4g", c.Std))
				}
			}
		case table.Categorical:
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(safeName(c.Name)))
		}
		b.WriteString(" |\n|")
		for range r.Cols {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				b.WriteString(safeVal(truncate(val, 80)))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

// truncate shortens s to at most n runes, ending in "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
