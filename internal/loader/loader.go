// Package loader reads a spreadsheet or delimited file into a table and
// keeps loaded tables in a path-keyed cache.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/table"
)

// Options controls how a dataset file is read.
type Options struct {
	// SheetName selects an XLSX worksheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based worksheet position, used if SheetName is empty.
	SheetIndex int
	// Delimiter for CSV. If 0, ',' is used (or '\t' for .tsv files).
	Delimiter rune
	// Numeric parsing locale.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// DefaultOptions reads the first worksheet with '.' as decimal separator.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// ErrUnsupported indicates a file extension the loader cannot read.
var ErrUnsupported = errors.New("unsupported dataset format (use .xlsx, .csv or .tsv)")

// Load reads path into a table. Any failure is returned as *table.LoadError.
func Load(path string, opt Options) (*table.Table, error) {
	t, err := load(path, opt)
	if err != nil {
		return nil, &table.LoadError{Path: path, Err: err}
	}
	return t, nil
}

func load(path string, opt Options) (*table.Table, error) {
	nf := table.NumberFormat{Decimal: opt.DecimalSeparator, Thousands: opt.ThousandsSeparator}
	name := filepath.Base(path)
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read xlsx: %w", err)
		}
		records, err := readXLSXRecords(b, opt.SheetName, opt.SheetIndex)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("no header row")
		}
		return table.FromRecords(name, records[0], records[1:], nf)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"):
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		delim := opt.Delimiter
		if delim == 0 {
			delim = sniffDelimiter(path)
		}
		return table.ReadCSV(bytes.NewReader(b), name, delim, nf)
	default:
		return nil, ErrUnsupported
	}
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
