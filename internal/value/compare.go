package value

import (
	"strings"

	"golang.org/x/exp/constraints"
)

// CompareOrdered returns -1, 0 or 1. Unordered operands (NaN) compare equal.
func CompareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare orders two values: numerically when both hold numbers, otherwise by
// byte-wise comparison of their string coercions.
func Compare(a, b Value) int {
	if a.kind == KindNumber && b.kind == KindNumber {
		return CompareOrdered(a.num, b.num)
	}
	return strings.Compare(a.String(), b.String())
}
