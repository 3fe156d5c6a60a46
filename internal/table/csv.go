package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// WriteCSV exports t as UTF-8 comma-separated text: a header row of
// column names followed by the data rows in table order. No index column
// is written.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Schema().Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.Rows(); i++ {
		if err := cw.Write(t.Row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses delimited text with a header row into a table using
// the same inference rules as the dataset loader. comma 0 means ','.
func ReadCSV(r io.Reader, name string, comma rune, nf NumberFormat) (*Table, error) {
	return readCSV(r, name, comma, nf, nil)
}

// ReadCSVSchema parses text written by WriteCSV, keeping the declared
// kind of every column named in schema. Columns not in schema are
// inferred.
func ReadCSVSchema(r io.Reader, name string, schema Schema) (*Table, error) {
	return readCSV(r, name, ',', NumberFormat{}, schema)
}

func readCSV(r io.Reader, name string, comma rune, nf NumberFormat, schema Schema) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if comma != 0 {
		cr.Comma = comma
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return fromRecords(name, header, records, nf, schema)
}
