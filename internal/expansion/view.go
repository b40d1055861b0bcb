package expansion

import (
	"github.com/quocdat202/pivot/internal/grouping"
)

// VisibleRows projects a pre-order grouped-row tree onto the rows to render.
// The total row and every level-0 row are always visible; a deeper row is
// visible when its parent path is in expanded. The tree and the set are not
// modified, and a nil set expands nothing.
func VisibleRows(rows []grouping.GroupedRow, expanded *Set) []grouping.GroupedRow {
	out := make([]grouping.GroupedRow, 0, len(rows))
	for _, row := range rows {
		if IsVisible(row, expanded) {
			out = append(out, row)
		}
	}
	return out
}

// IsVisible applies the visibility rule of VisibleRows to a single row.
func IsVisible(row grouping.GroupedRow, expanded *Set) bool {
	if row.Level <= 0 {
		return true
	}
	parent := row.ParentPath()
	return len(parent) == 0 || expanded.Contains(parent)
}

// ExpandAll returns a set expanding every row that has children in a tree
// grouped by depth columns.
func ExpandAll(rows []grouping.GroupedRow, depth int) *Set {
	s := NewSet()
	for _, row := range rows {
		if row.Expandable(depth) {
			s.Add(row.Path)
		}
	}
	return s
}

// ExpandToLevel returns a set expanding every group row above level, so that
// rows down to and including level become visible.
func ExpandToLevel(rows []grouping.GroupedRow, level int) *Set {
	s := NewSet()
	for _, row := range rows {
		if !row.IsTotal && row.Level >= 0 && row.Level < level {
			s.Add(row.Path)
		}
	}
	return s
}
