package value

import (
	"slices"
)

// Row maps column names to cell values. A column absent from the map reads as
// Missing. Rows are treated as immutable once ingested.
type Row map[string]Value

// RowOf builds a Row from plain Go values.
func RowOf(fields map[string]interface{}) Row {
	row := make(Row, len(fields))
	for k, v := range fields {
		row[k] = Of(v)
	}
	return row
}

// Get returns the value of column, Missing when absent.
func (r Row) Get(column string) Value {
	return r[column]
}

// Has reports whether the row carries column, null or not.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Map returns the row as plain Go values.
func (r Row) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r))
	for k, v := range r {
		out[k] = v.Interface()
	}
	return out
}

// Dataset is an ordered set of columns plus the rows that carry them.
type Dataset struct {
	Columns []string `json:"columns" yaml:"columns" msgpack:"columns"`
	Rows    []Row    `json:"rows" yaml:"rows" msgpack:"rows"`
}

// NewDataset creates a dataset. When columns is empty the column list is
// derived from the rows in first-seen order, with keys of each row sorted.
func NewDataset(columns []string, rows []Row) *Dataset {
	if len(columns) == 0 {
		columns = ColumnsOf(rows)
	}
	return &Dataset{Columns: columns, Rows: rows}
}

// ColumnsOf collects the distinct column names of rows.
func ColumnsOf(rows []Row) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			if _, ok := seen[k]; !ok {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		for _, k := range keys {
			seen[k] = struct{}{}
			columns = append(columns, k)
		}
	}
	return columns
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Width returns the number of columns.
func (d *Dataset) Width() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// HasColumn reports whether the dataset declares column.
func (d *Dataset) HasColumn(column string) bool {
	if d == nil {
		return false
	}
	return slices.Contains(d.Columns, column)
}

// ColumnNames returns a copy of the column list.
func (d *Dataset) ColumnNames() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.Columns)
}
