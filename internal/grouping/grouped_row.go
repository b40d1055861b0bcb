// Package grouping builds the hierarchical grouped-row tree of a pivot and
// enumerates split-column combinations.
package grouping

import (
	"slices"

	"github.com/quocdat202/pivot/internal/value"
)

// DefaultTotalLabel is the single path element of the grand-total row.
const DefaultTotalLabel = "Total"

// GroupedRow is one node of the grouped-row tree, stored in pre-order.
//
// Header rows carry their group column set to the raw key string; every row
// carries one aggregate per metric. A metric sharing its name with a group
// column overwrites the key.
type GroupedRow struct {
	Path          []string               `json:"path" yaml:"path" msgpack:"path"`
	Level         int                    `json:"level" yaml:"level" msgpack:"level"`
	IsTotal       bool                   `json:"is_total,omitempty" yaml:"is_total,omitempty" msgpack:"is_total,omitempty"`
	ChildrenCount int                    `json:"children_count" yaml:"children_count" msgpack:"children_count"`
	Values        map[string]value.Value `json:"values" yaml:"values" msgpack:"values"`
}

// ParentPath returns the row's path without its last element.
func (r GroupedRow) ParentPath() []string {
	if len(r.Path) == 0 {
		return nil
	}
	return r.Path[:len(r.Path)-1]
}

// Label returns the last path element, the key shown in the hierarchy column.
func (r GroupedRow) Label() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[len(r.Path)-1]
}

// Expandable reports whether the row has child headers in a tree grouped by
// depth columns.
func (r GroupedRow) Expandable(depth int) bool {
	return !r.IsTotal && r.Level >= 0 && r.Level < depth-1
}

// Get returns the value of column, Missing when absent.
func (r GroupedRow) Get(column string) value.Value {
	return r.Values[column]
}

// Clone returns a deep copy of r.
func (r GroupedRow) Clone() GroupedRow {
	out := r
	out.Path = slices.Clone(r.Path)
	if r.Values != nil {
		out.Values = make(map[string]value.Value, len(r.Values))
		for k, v := range r.Values {
			out.Values[k] = v
		}
	}
	return out
}
