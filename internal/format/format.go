// Package format renders cell values and column names for display.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

// Placeholder is shown for null and missing values.
const Placeholder = "-"

//nolint:gochecknoglobals // immutable formatters shared by every call
var (
	printer   = message.NewPrinter(language.English)
	titler    = cases.Title(language.English, cases.NoLower)
	camelHump = regexp.MustCompile(`([a-z])([A-Z])`)
)

// CellValue renders v as it appears in a table cell. fn is the aggregate
// the column was computed with and may be empty.
//
// Counts and integers are grouped with at most three decimals, columns
// whose name contains "rate" or "ctr" are shown as percentages with two
// decimals, and other numbers are grouped with exactly two decimals.
func CellValue(v value.Value, column string, fn model.AggregateFunction) string {
	if v.IsNil() {
		return Placeholder
	}
	if !v.IsNumber() {
		return v.String()
	}

	f := v.Float()
	if fn == model.AggCount {
		return Grouped(f, 0, 3)
	}
	if IsRateColumn(column) {
		return fixed(f*100, 2) + "%"
	}
	if f == math.Trunc(f) {
		return Grouped(f, 0, 3)
	}
	return Grouped(f, 2, 2)
}

// IsRateColumn reports whether column holds ratios rendered as percentages.
func IsRateColumn(column string) bool {
	lower := strings.ToLower(column)
	return strings.Contains(lower, "rate") || strings.Contains(lower, "ctr")
}

// Grouped formats f with thousands separators and between minFrac and
// maxFrac fraction digits.
func Grouped(f float64, minFrac, maxFrac int) string {
	if s, ok := nonFinite(f); ok {
		return s
	}
	s := printer.Sprintf(fmt.Sprintf("%%.%df", maxFrac), f)
	return trimFraction(s, minFrac)
}

func fixed(f float64, digits int) string {
	if s, ok := nonFinite(f); ok {
		return s
	}
	return fmt.Sprintf("%.*f", digits, f)
}

func nonFinite(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, 1):
		return "∞", true
	case math.IsInf(f, -1):
		return "-∞", true
	}
	return "", false
}

// trimFraction drops trailing fraction zeros beyond minFrac digits.
func trimFraction(s string, minFrac int) string {
	if dot := strings.LastIndexByte(s, '.'); dot >= 0 {
		end := len(s)
		for end > dot+1+minFrac && s[end-1] == '0' {
			end--
		}
		if end == dot+1 {
			end = dot
		}
		s = s[:end]
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// FieldName turns a column name into a display header: underscores become
// spaces, camelCase humps are split and every word starts upper case.
func FieldName(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	name = camelHump.ReplaceAllString(name, "$1 $2")
	return titler.String(name)
}
