package grouping

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// sortKeys orders keys by their UTF-16 code units. This matches byte order
// except where a character above U+FFFF meets one in U+E000..U+FFFF.
func sortKeys(keys []string) {
	slices.SortFunc(keys, compareKeys)
}

func compareKeys(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if (ra == utf8.RuneError || rb == utf8.RuneError) && a[:na] != b[:nb] {
			return strings.Compare(a[:na], b[:nb])
		}
		if ra != rb {
			ha, la := codeUnits(ra)
			hb, lb := codeUnits(rb)
			if ha != hb {
				return int(ha) - int(hb)
			}
			return int(la) - int(lb)
		}
		a, b = a[na:], b[nb:]
	}
	return len(a) - len(b)
}

// codeUnits returns the UTF-16 encoding of r; lo is zero outside the
// supplementary planes.
func codeUnits(r rune) (hi, lo uint16) {
	if h, l := utf16.EncodeRune(r); h != unicode.ReplacementChar {
		return uint16(h), uint16(l) //nolint:gosec // surrogates fit in uint16
	}
	return uint16(r), 0 //nolint:gosec // r is in the basic multilingual plane
}
