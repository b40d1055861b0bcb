// Package aggregate reduces a metric column's values within a bucket.
//
// Every function is total: empty inputs, non-numeric values and unknown
// function names all degrade to a documented fallback instead of failing.
package aggregate

import (
	"math"

	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

// Aggregate applies fn to values.
//
// Numeric functions consider only values that are neither null nor missing
// and whose numeric coercion is not NaN. sum, avg, min and max return 0 when
// no such value exists. count is the number of input values of any kind.
// first and last return the raw first and last input value. none, and any
// unrecognised function, returns null.
func Aggregate(values []value.Value, fn model.AggregateFunction) value.Value {
	switch fn {
	case model.AggSum:
		return value.Number(sum(numbers(values)))
	case model.AggAvg:
		nums := numbers(values)
		if len(nums) == 0 {
			return value.Number(0)
		}
		return value.Number(sum(nums) / float64(len(nums)))
	case model.AggCount:
		return value.Int(len(values))
	case model.AggMin:
		return value.Number(extreme(numbers(values), math.Min))
	case model.AggMax:
		return value.Number(extreme(numbers(values), math.Max))
	case model.AggFirst:
		if len(values) == 0 {
			return value.Missing()
		}
		return values[0]
	case model.AggLast:
		if len(values) == 0 {
			return value.Missing()
		}
		return values[len(values)-1]
	default:
		return value.Null()
	}
}

// Column extracts column from every row, in row order.
func Column(rows []value.Row, column string) []value.Value {
	out := make([]value.Value, len(rows))
	for i, row := range rows {
		out[i] = row.Get(column)
	}
	return out
}

// Metrics aggregates every metric of rows into dst using the function cfg
// assigns to it, and returns dst.
func Metrics(dst map[string]value.Value, rows []value.Row, metrics []string, aggregates map[string]model.AggregateFunction) map[string]value.Value {
	cfg := model.PivotConfig{Aggregates: aggregates}
	for _, metric := range metrics {
		dst[metric] = Aggregate(Column(rows, metric), cfg.AggregateFor(metric))
	}
	return dst
}

func numbers(values []value.Value) []float64 {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if v.IsNil() {
			continue
		}
		if f := v.Float(); !math.IsNaN(f) {
			nums = append(nums, f)
		}
	}
	return nums
}

func sum(nums []float64) float64 {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total
}

func extreme(nums []float64, pick func(a, b float64) float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	out := nums[0]
	for _, n := range nums[1:] {
		out = pick(out, n)
	}
	return out
}
