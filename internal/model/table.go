// Package model defines the core domain models used throughout the application.
package model

// Row is one record of a tabular report. A key that is absent from the
// map is the null sentinel; an empty string is a present-but-empty cell.
type Row map[string]string

// Table is a raw or normalized tabular report. Column order is
// significant: column resolution walks Columns in order, and exports
// write cells in this order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Clone returns a deep copy of the table so normalizers can rewrite
// cells without mutating the caller's input.
func (t *Table) Clone() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		dup := make(Row, len(row))
		for k, v := range row {
			dup[k] = v
		}
		rows[i] = dup
	}

	return &Table{Columns: cols, Rows: rows}
}

// Get returns the cell value for a column and whether it is present.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}
