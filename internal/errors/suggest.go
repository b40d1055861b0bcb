package errors

import (
	"sort"
	"strings"
)

// maxSuggestionDistance bounds the edit distance of suggested columns.
const maxSuggestionDistance = 3

// findSimilarColumns returns the columns of available closest to target,
// comparing case-insensitively with underscores removed. Only candidates
// within maxSuggestionDistance edits are returned, nearest first.
func findSimilarColumns(target string, available []string) []string {
	type candidate struct {
		name     string
		distance int
	}

	norm := normalizeColumnName(target)
	var candidates []candidate
	for _, col := range available {
		d := levenshtein(norm, normalizeColumnName(col))
		if d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{name: col, distance: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

func normalizeColumnName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "")
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
