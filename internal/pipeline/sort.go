package pipeline

import (
	"slices"

	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

// ApplySort returns a copy of rows stably sorted by keys. Earlier keys take
// priority; rows tied on every key keep their input order.
func ApplySort(rows []value.Row, keys []model.SortConfig) []value.Row {
	out := slices.Clone(rows)
	if len(keys) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b value.Row) int {
		return CompareRows(a, b, keys)
	})
	return out
}

// CompareRows orders a and b by keys: numerically when both values are
// numbers, otherwise by their string coercions. A descending key negates its
// own comparison only.
func CompareRows(a, b value.Row, keys []model.SortConfig) int {
	for _, key := range keys {
		c := value.Compare(a.Get(key.Column), b.Get(key.Column))
		if c == 0 {
			continue
		}
		if key.Direction == model.Desc {
			return -c
		}
		return c
	}
	return 0
}
