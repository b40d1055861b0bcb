// Package model defines the declarative pivot configuration: which columns
// group rows, which split them into cross-tab column groups, which metrics are
// aggregated and how, plus filters, sort keys and the presentation settings
// the engine passes through untouched.
package model

import (
	"fmt"
	"maps"
	"slices"

	"github.com/quocdat202/pivot/internal/value"
)

// AggregateFunction names a reduction applied to a metric column.
type AggregateFunction string

// Supported aggregate functions
const (
	AggSum   AggregateFunction = "sum"
	AggAvg   AggregateFunction = "avg"
	AggCount AggregateFunction = "count"
	AggMin   AggregateFunction = "min"
	AggMax   AggregateFunction = "max"
	AggFirst AggregateFunction = "first"
	AggLast  AggregateFunction = "last"
	AggNone  AggregateFunction = "none"
)

// AggregateFunctions lists every supported function in display order.
var AggregateFunctions = []AggregateFunction{AggSum, AggAvg, AggCount, AggMin, AggMax, AggFirst, AggLast, AggNone}

// Valid reports whether f is a supported function.
func (f AggregateFunction) Valid() bool {
	return slices.Contains(AggregateFunctions, f)
}

// ParseAggregateFunction parses a function name.
func ParseAggregateFunction(s string) (AggregateFunction, error) {
	f := AggregateFunction(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown aggregate function %q", s)
	}
	return f, nil
}

// FilterOperator is the comparison applied by a filter.
type FilterOperator string

// Supported filter operators
const (
	OpEquals   FilterOperator = "equals"
	OpContains FilterOperator = "contains"
	OpGT       FilterOperator = "gt"
	OpLT       FilterOperator = "lt"
	OpGTE      FilterOperator = "gte"
	OpLTE      FilterOperator = "lte"
)

// FilterOperators lists every supported operator.
var FilterOperators = []FilterOperator{OpEquals, OpContains, OpGT, OpLT, OpGTE, OpLTE}

// Valid reports whether op is a supported operator.
func (op FilterOperator) Valid() bool {
	return slices.Contains(FilterOperators, op)
}

// ParseFilterOperator parses an operator name.
func ParseFilterOperator(s string) (FilterOperator, error) {
	op := FilterOperator(s)
	if !op.Valid() {
		return "", fmt.Errorf("unknown filter operator %q", s)
	}
	return op, nil
}

// SortDirection orders a sort key.
type SortDirection string

// Sort directions
const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Valid reports whether d is asc or desc.
func (d SortDirection) Valid() bool {
	return d == Asc || d == Desc
}

// ParseSortDirection parses a direction, defaulting to asc for "".
func ParseSortDirection(s string) (SortDirection, error) {
	if s == "" {
		return Asc, nil
	}
	d := SortDirection(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
	return d, nil
}

// FilterConfig is a single predicate over one column.
type FilterConfig struct {
	Column   string         `json:"column" yaml:"column" msgpack:"column"`
	Operator FilterOperator `json:"operator" yaml:"operator" msgpack:"operator"`
	Value    value.Value    `json:"value" yaml:"value" msgpack:"value"`
}

// SortConfig is a single sort key.
type SortConfig struct {
	Column    string        `json:"column" yaml:"column" msgpack:"column"`
	Direction SortDirection `json:"direction" yaml:"direction" msgpack:"direction"`
}

// ColorMode selects whether a column colour tints the text or the cell.
type ColorMode string

// Colour modes
const (
	ColorText       ColorMode = "text"
	ColorBackground ColorMode = "background"
)

// ColumnColorConfig is the colour applied to a metric column's numeric cells.
type ColumnColorConfig struct {
	Mode  ColorMode `json:"mode" yaml:"mode" msgpack:"mode"`
	Color string    `json:"color" yaml:"color" msgpack:"color"`
}

// PivotConfig describes a pivot. The JSON shape matches the browser tool's
// in-memory configuration; see PivotSettings for the persisted wire shape.
type PivotConfig struct {
	GroupBy    []string                     `json:"group_by" yaml:"group_by"`
	SplitBy    []string                     `json:"split_by" yaml:"split_by"`
	Metrics    []string                     `json:"columns" yaml:"columns"`
	Aggregates map[string]AggregateFunction `json:"aggregates" yaml:"aggregates"`
	Filters    []FilterConfig               `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort       []SortConfig                 `json:"sort,omitempty" yaml:"sort,omitempty"`

	// VisibleColumns restricts the rendered metrics. Nil means all metrics
	// are visible; an empty non-nil slice hides every metric.
	VisibleColumns []string `json:"visibleColumns,omitempty" yaml:"visibleColumns,omitempty"`

	// Presentation settings; the engine never reads these.
	ColumnColors       map[string]ColumnColorConfig `json:"columnColors,omitempty" yaml:"columnColors,omitempty"`
	ColumnOrder        []string                     `json:"columnOrder,omitempty" yaml:"columnOrder,omitempty"`
	ColumnWidths       map[string]int               `json:"columnWidths,omitempty" yaml:"columnWidths,omitempty"`
	PinnedColumnsCount int                          `json:"pinnedColumnsCount,omitempty" yaml:"pinnedColumnsCount,omitempty"`
	MetricsOrder       []string                     `json:"metricsOrder,omitempty" yaml:"metricsOrder,omitempty"`
}

// DefaultPivotConfig returns an empty configuration with every metric visible.
func DefaultPivotConfig() PivotConfig {
	return PivotConfig{
		GroupBy:      []string{},
		SplitBy:      []string{},
		Metrics:      []string{},
		Aggregates:   map[string]AggregateFunction{},
		Filters:      []FilterConfig{},
		Sort:         []SortConfig{},
		ColumnColors: map[string]ColumnColorConfig{},
		ColumnOrder:  []string{},
		ColumnWidths: map[string]int{},
		MetricsOrder: []string{},
	}
}

// AggregateFor returns the function configured for metric, sum when unset.
func (c PivotConfig) AggregateFor(metric string) AggregateFunction {
	if fn, ok := c.Aggregates[metric]; ok && fn != "" {
		return fn
	}
	return AggSum
}

// IsMetricVisible reports whether metric should be rendered.
func (c PivotConfig) IsMetricVisible(metric string) bool {
	return c.VisibleColumns == nil || slices.Contains(c.VisibleColumns, metric)
}

// Clone returns a deep copy of c. Nil slices and maps stay nil.
func (c PivotConfig) Clone() PivotConfig {
	out := c
	out.GroupBy = slices.Clone(c.GroupBy)
	out.SplitBy = slices.Clone(c.SplitBy)
	out.Metrics = slices.Clone(c.Metrics)
	out.Aggregates = maps.Clone(c.Aggregates)
	out.Filters = slices.Clone(c.Filters)
	out.Sort = slices.Clone(c.Sort)
	out.VisibleColumns = slices.Clone(c.VisibleColumns)
	out.ColumnColors = maps.Clone(c.ColumnColors)
	out.ColumnOrder = slices.Clone(c.ColumnOrder)
	out.ColumnWidths = maps.Clone(c.ColumnWidths)
	out.MetricsOrder = slices.Clone(c.MetricsOrder)
	return out
}
