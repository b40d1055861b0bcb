package grouping

import (
	"slices"

	"github.com/quocdat202/pivot/internal/aggregate"
	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

// GroupData partitions rows by groupBy[level] and emits, for every distinct
// key in ascending UTF-16 code unit order, a header row followed by its descendants.
//
// Header rows aggregate every metric over the whole bucket. Recursion stops
// after the header of the last group-by level, so leaf buckets are never
// materialised as separate rows. Called with level >= len(groupBy), GroupData
// returns a single row for parentPath aggregated over rows.
func GroupData(
	rows []value.Row,
	groupBy []string,
	metrics []string,
	aggregates map[string]model.AggregateFunction,
	level int,
	parentPath []string,
) []GroupedRow {
	if level >= len(groupBy) {
		return []GroupedRow{{
			Path:          slices.Clone(parentPath),
			Level:         level,
			ChildrenCount: len(rows),
			Values:        aggregate.Metrics(make(map[string]value.Value, len(metrics)), rows, metrics, aggregates),
		}}
	}

	column := groupBy[level]
	buckets, keys := buildBuckets(rows, column)

	var out []GroupedRow
	for _, key := range keys {
		bucket := buckets[key]
		path := append(slices.Clone(parentPath), key)

		values := make(map[string]value.Value, len(metrics)+1)
		values[column] = value.String(key)
		aggregate.Metrics(values, bucket, metrics, aggregates)

		out = append(out, GroupedRow{
			Path:          path,
			Level:         level,
			ChildrenCount: len(bucket),
			Values:        values,
		})

		if level+1 < len(groupBy) {
			out = append(out, GroupData(bucket, groupBy, metrics, aggregates, level+1, path)...)
		}
	}
	return out
}

// buildBuckets groups rows by the key string of column, preserving row order
// within each bucket, and returns the keys sorted ascending.
func buildBuckets(rows []value.Row, column string) (map[string][]value.Row, []string) {
	buckets := make(map[string][]value.Row)
	var keys []string
	for _, row := range rows {
		key := row.Get(column).KeyString()
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], row)
	}
	sortKeys(keys)
	return buckets, keys
}

// TotalRow aggregates every metric over rows into the grand-total row.
func TotalRow(rows []value.Row, metrics []string, aggregates map[string]model.AggregateFunction, label string) GroupedRow {
	if label == "" {
		label = DefaultTotalLabel
	}
	return GroupedRow{
		Path:          []string{label},
		Level:         -1,
		IsTotal:       true,
		ChildrenCount: len(rows),
		Values:        aggregate.Metrics(make(map[string]value.Value, len(metrics)), rows, metrics, aggregates),
	}
}

// BuildTree returns the full grouped-row tree for already filtered and sorted
// rows: the grand-total row followed by the group hierarchy. Without group-by
// columns there is no tree and the result is empty.
func BuildTree(rows []value.Row, cfg model.PivotConfig, totalLabel string) []GroupedRow {
	if len(cfg.GroupBy) == 0 {
		return []GroupedRow{}
	}
	out := []GroupedRow{TotalRow(rows, cfg.Metrics, cfg.Aggregates, totalLabel)}
	return append(out, GroupData(rows, cfg.GroupBy, cfg.Metrics, cfg.Aggregates, 0, nil)...)
}
