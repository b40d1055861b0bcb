package model

import (
	"maps"
	"slices"
)

// PivotSettings is the persisted wire shape of a PivotConfig. Every optional
// collection is present (possibly empty) after ToSettings.
type PivotSettings struct {
	GroupBy            []string                     `json:"group_by" yaml:"group_by" msgpack:"group_by"`
	SplitBy            []string                     `json:"split_by" yaml:"split_by" msgpack:"split_by"`
	Metrics            []string                     `json:"metrics" yaml:"metrics" msgpack:"metrics"`
	Aggregates         map[string]AggregateFunction `json:"aggregates" yaml:"aggregates" msgpack:"aggregates"`
	Filters            []FilterConfig               `json:"filters" yaml:"filters" msgpack:"filters"`
	Sort               []SortConfig                 `json:"sort" yaml:"sort" msgpack:"sort"`
	VisibleColumns     []string                     `json:"visible_columns" yaml:"visible_columns" msgpack:"visible_columns"`
	ColumnColors       map[string]ColumnColorConfig `json:"column_colors" yaml:"column_colors" msgpack:"column_colors"`
	ColumnOrder        []string                     `json:"column_order" yaml:"column_order" msgpack:"column_order"`
	ColumnWidths       map[string]int               `json:"column_widths" yaml:"column_widths" msgpack:"column_widths"`
	PinnedColumnsCount int                          `json:"pinned_columns_count" yaml:"pinned_columns_count" msgpack:"pinned_columns_count"`
}

// FromSettings converts the wire shape into a PivotConfig. Collections are
// copied so the result does not alias s. An empty visible_columns list reads
// as "all visible", the same list ToSettings writes for a nil one.
func FromSettings(s PivotSettings) PivotConfig {
	return PivotConfig{
		GroupBy:            slices.Clone(s.GroupBy),
		SplitBy:            slices.Clone(s.SplitBy),
		Metrics:            slices.Clone(s.Metrics),
		Aggregates:         maps.Clone(s.Aggregates),
		Filters:            slices.Clone(s.Filters),
		Sort:               slices.Clone(s.Sort),
		VisibleColumns:     visibleColumns(s.VisibleColumns),
		ColumnColors:       maps.Clone(s.ColumnColors),
		ColumnOrder:        slices.Clone(s.ColumnOrder),
		ColumnWidths:       maps.Clone(s.ColumnWidths),
		PinnedColumnsCount: s.PinnedColumnsCount,
	}
}

func visibleColumns(columns []string) []string {
	if len(columns) == 0 {
		return nil
	}
	return slices.Clone(columns)
}

// ToSettings converts c into the wire shape, filling absent collections with
// empty values. MetricsOrder has no wire field and is dropped.
func ToSettings(c PivotConfig) PivotSettings {
	return PivotSettings{
		GroupBy:            orEmpty(c.GroupBy),
		SplitBy:            orEmpty(c.SplitBy),
		Metrics:            orEmpty(c.Metrics),
		Aggregates:         orEmptyMap(c.Aggregates),
		Filters:            orEmpty(c.Filters),
		Sort:               orEmpty(c.Sort),
		VisibleColumns:     orEmpty(c.VisibleColumns),
		ColumnColors:       orEmptyMap(c.ColumnColors),
		ColumnOrder:        orEmpty(c.ColumnOrder),
		ColumnWidths:       orEmptyMap(c.ColumnWidths),
		PinnedColumnsCount: c.PinnedColumnsCount,
	}
}

// Normalize returns s with every nil collection replaced by an empty one.
func (s PivotSettings) Normalize() PivotSettings {
	return ToSettings(FromSettings(s))
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

func orEmptyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return maps.Clone(m)
}
