// Package dataset provides the tabular loading and column classification
// logic for uploaded CSV files. This package has no UI dependencies and can
// be used by any frontend.
package dataset

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an immutable view over a parsed CSV dataset: an ordered sequence
// of named columns of equal length. Column types are inferred at load time.
// A Table is replaced wholesale on each upload, never partially mutated.
type Table struct {
	df dataframe.DataFrame
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return t.df.Names()
}

// NumRows returns the number of data rows (excluding the header).
func (t *Table) NumRows() int {
	return t.df.Nrow()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return t.df.Ncol()
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.df.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnRecords returns the raw cell values of one column in row order.
func (t *Table) ColumnRecords(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	col := t.df.Col(name)
	if col.Err != nil {
		return nil, col.Err
	}
	return col.Records(), nil
}

// ColumnType returns the inferred type of one column.
func (t *Table) ColumnType(name string) (series.Type, error) {
	if !t.HasColumn(name) {
		return series.String, fmt.Errorf("unknown column %q", name)
	}
	for i, c := range t.df.Names() {
		if c == name {
			return t.df.Types()[i], nil
		}
	}
	return series.String, fmt.Errorf("unknown column %q", name)
}

// Records returns all rows as strings, header row first.
func (t *Table) Records() [][]string {
	return t.df.Records()
}

// HeadRecords returns the header row plus up to n data rows.
// Used for upload previews and the PDF data grid.
func (t *Table) HeadRecords(n int) [][]string {
	records := t.df.Records()
	if len(records) == 0 {
		return records
	}
	if n < 0 {
		n = 0
	}
	if len(records)-1 > n {
		records = records[:n+1]
	}
	return records
}

// WriteCSV serializes the table as UTF-8 comma-separated text with a header
// row and no index column.
func (t *Table) WriteCSV(w io.Writer) error {
	return t.df.WriteCSV(w, dataframe.WriteHeader(true))
}
