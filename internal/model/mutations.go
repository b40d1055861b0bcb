package model

import (
	"slices"
)

// Mutation helpers return an updated copy and never modify the receiver.

// AddGroupBy appends column to the row hierarchy unless it is already there.
func (c PivotConfig) AddGroupBy(column string) PivotConfig {
	if slices.Contains(c.GroupBy, column) {
		return c
	}
	out := c.Clone()
	out.GroupBy = append(out.GroupBy, column)
	return out
}

// RemoveGroupBy drops column from the row hierarchy.
func (c PivotConfig) RemoveGroupBy(column string) PivotConfig {
	out := c.Clone()
	out.GroupBy = without(out.GroupBy, column)
	return out
}

// MoveGroupBy moves the group-by column at index from to index to.
func (c PivotConfig) MoveGroupBy(from, to int) PivotConfig {
	out := c.Clone()
	out.GroupBy = move(out.GroupBy, from, to)
	return out
}

// AddSplitBy appends column to the split columns unless it is already there.
func (c PivotConfig) AddSplitBy(column string) PivotConfig {
	if slices.Contains(c.SplitBy, column) {
		return c
	}
	out := c.Clone()
	out.SplitBy = append(out.SplitBy, column)
	return out
}

// RemoveSplitBy drops column from the split columns.
func (c PivotConfig) RemoveSplitBy(column string) PivotConfig {
	out := c.Clone()
	out.SplitBy = without(out.SplitBy, column)
	return out
}

// MoveSplitBy moves the split column at index from to index to.
func (c PivotConfig) MoveSplitBy(from, to int) PivotConfig {
	out := c.Clone()
	out.SplitBy = move(out.SplitBy, from, to)
	return out
}

// AddMetric adds column as a metric with the default aggregate for its type.
func (c PivotConfig) AddMetric(column string, typ ColumnType) PivotConfig {
	if slices.Contains(c.Metrics, column) {
		return c
	}
	out := c.Clone()
	out.Metrics = append(out.Metrics, column)
	if out.Aggregates == nil {
		out.Aggregates = map[string]AggregateFunction{}
	}
	out.Aggregates[column] = DefaultAggregateFor(typ)
	return out
}

// RemoveMetric drops column from the metrics together with its aggregate.
func (c PivotConfig) RemoveMetric(column string) PivotConfig {
	out := c.Clone()
	out.Metrics = without(out.Metrics, column)
	delete(out.Aggregates, column)
	return out
}

// MoveMetric moves the metric at index from to index to.
func (c PivotConfig) MoveMetric(from, to int) PivotConfig {
	out := c.Clone()
	out.Metrics = move(out.Metrics, from, to)
	return out
}

// SetAggregate sets the aggregate function of metric.
func (c PivotConfig) SetAggregate(metric string, fn AggregateFunction) PivotConfig {
	out := c.Clone()
	if out.Aggregates == nil {
		out.Aggregates = map[string]AggregateFunction{}
	}
	out.Aggregates[metric] = fn
	return out
}

// SetColumnVisibility shows or hides column. When no explicit visibility list
// exists yet, available seeds it.
func (c PivotConfig) SetColumnVisibility(column string, visible bool, available []string) PivotConfig {
	out := c.Clone()
	current := out.VisibleColumns
	if current == nil {
		current = slices.Clone(available)
	}
	if visible {
		if !slices.Contains(current, column) {
			current = append(current, column)
		}
	} else {
		current = without(current, column)
	}
	out.VisibleColumns = current
	return out
}

// ShowAllColumns makes every column in available visible.
func (c PivotConfig) ShowAllColumns(available []string) PivotConfig {
	out := c.Clone()
	out.VisibleColumns = slices.Clone(available)
	if out.VisibleColumns == nil {
		out.VisibleColumns = []string{}
	}
	return out
}

// HideAllColumns hides every metric column.
func (c PivotConfig) HideAllColumns() PivotConfig {
	out := c.Clone()
	out.VisibleColumns = []string{}
	return out
}

// AddFilter appends a filter.
func (c PivotConfig) AddFilter(f FilterConfig) PivotConfig {
	out := c.Clone()
	out.Filters = append(out.Filters, f)
	return out
}

// RemoveFilter drops the filter at index i. Out-of-range indexes are ignored.
func (c PivotConfig) RemoveFilter(i int) PivotConfig {
	if i < 0 || i >= len(c.Filters) {
		return c
	}
	out := c.Clone()
	out.Filters = slices.Delete(out.Filters, i, i+1)
	return out
}

// SetSort replaces the sort keys.
func (c PivotConfig) SetSort(keys ...SortConfig) PivotConfig {
	out := c.Clone()
	out.Sort = slices.Clone(keys)
	return out
}

// UsedColumns returns the distinct columns referenced by the group-by, split
// and metric lists, in that order.
func (c PivotConfig) UsedColumns() []string {
	var used []string
	for _, list := range [][]string{c.GroupBy, c.SplitBy, c.Metrics} {
		for _, col := range list {
			if !slices.Contains(used, col) {
				used = append(used, col)
			}
		}
	}
	return used
}

// UnusedColumns returns the columns of available not referenced by c.
func (c PivotConfig) UnusedColumns(available []string) []string {
	used := c.UsedColumns()
	var unused []string
	for _, col := range available {
		if !slices.Contains(used, col) {
			unused = append(unused, col)
		}
	}
	return unused
}

func without(list []string, item string) []string {
	return slices.DeleteFunc(list, func(s string) bool { return s == item })
}

// move relocates list[from] to index to, shifting the elements in between.
// Out-of-range indexes leave the list unchanged.
func move(list []string, from, to int) []string {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) || from == to {
		return list
	}
	item := list[from]
	list = slices.Delete(list, from, from+1)
	return slices.Insert(list, to, item)
}
