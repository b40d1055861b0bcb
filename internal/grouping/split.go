package grouping

import (
	"strings"

	"github.com/quocdat202/pivot/internal/value"
)

// DefaultSplitSeparator joins the values of a split combination.
const DefaultSplitSeparator = "|"

// SplitCombinations returns the distinct tuples of splitBy values found in
// rows, each joined with sep, sorted ascending. Null and missing values
// contribute an empty element. Without split columns the result is empty.
func SplitCombinations(rows []value.Row, splitBy []string, sep string) []string {
	if len(splitBy) == 0 {
		return []string{}
	}
	if sep == "" {
		sep = DefaultSplitSeparator
	}

	seen := make(map[string]struct{})
	parts := make([]string, len(splitBy))
	for _, row := range rows {
		for i, col := range splitBy {
			parts[i] = row.Get(col).KeyString()
		}
		seen[strings.Join(parts, sep)] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for combo := range seen {
		out = append(out, combo)
	}
	sortKeys(out)
	return out
}
