// Package pipeline implements the row-level stages that run before grouping:
// filtering and stable multi-key sorting. Both stages return new slices and
// never modify their input.
package pipeline

import (
	"math"
	"strings"

	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

// ApplyFilters returns the rows satisfying every filter, in input order.
func ApplyFilters(rows []value.Row, filters []model.FilterConfig) []value.Row {
	out := make([]value.Row, 0, len(rows))
	for _, row := range rows {
		if Matches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

// Matches reports whether row satisfies every filter.
func Matches(row value.Row, filters []model.FilterConfig) bool {
	for _, f := range filters {
		if !matchFilter(row.Get(f.Column), f) {
			return false
		}
	}
	return true
}

func matchFilter(v value.Value, f model.FilterConfig) bool {
	switch f.Operator {
	case model.OpEquals:
		return value.StrictEqual(v, f.Value)
	case model.OpContains:
		return strings.Contains(strings.ToLower(v.String()), strings.ToLower(f.Value.String()))
	case model.OpGT:
		return compareNumbers(v, f.Value, func(a, b float64) bool { return a > b })
	case model.OpLT:
		return compareNumbers(v, f.Value, func(a, b float64) bool { return a < b })
	case model.OpGTE:
		return compareNumbers(v, f.Value, func(a, b float64) bool { return a >= b })
	case model.OpLTE:
		return compareNumbers(v, f.Value, func(a, b float64) bool { return a <= b })
	default:
		return true
	}
}

// compareNumbers fails whenever either side coerces to NaN.
func compareNumbers(a, b value.Value, cmp func(a, b float64) bool) bool {
	x, y := a.Float(), b.Float()
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	return cmp(x, y)
}
