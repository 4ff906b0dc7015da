package model

import "strings"

// Row maps column names to cell values. A missing column and an empty
// string are equivalent: both read back as "".
type Row map[string]string

// Value returns the raw cell value for a column ("" when absent).
func (r Row) Value(col string) string {
	return r[col]
}

// IsBlank reports whether the cell is missing, empty, or whitespace-only.
func (r Row) IsBlank(col string) bool {
	return strings.TrimSpace(r[col]) == ""
}

// Dataset is an immutable snapshot of a tabular input: a fixed column
// order plus an ordered sequence of rows.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(col string) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the dataset so callers can append
// diagnostic columns without mutating the input snapshot.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Columns: make([]string, len(d.Columns)),
		Rows:    make([]Row, len(d.Rows)),
	}
	copy(out.Columns, d.Columns)
	for i, row := range d.Rows {
		nr := make(Row, len(row))
		for k, v := range row {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// AddColumn appends a column and writes one value per row.
// values shorter than the row count leave trailing rows empty.
func (d *Dataset) AddColumn(name string, values []string) {
	d.Columns = append(d.Columns, name)
	for i := range d.Rows {
		if i < len(values) {
			d.Rows[i][name] = values[i]
		}
	}
}
