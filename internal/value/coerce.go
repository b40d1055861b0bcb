package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Float returns the numeric coercion of v.
//
//	missing            -> NaN
//	null               -> 0
//	true / false       -> 1 / 0
//	"" or whitespace   -> 0
//	"12.5", "1e3"      -> parsed decimal
//	"0x1f", "0b101"    -> parsed integer literal
//	"Infinity"         -> +Inf
//	anything else      -> NaN
func (v Value) Float() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindNull:
		return 0
	case KindString:
		return parseNumber(v.str)
	default:
		return math.NaN()
	}
}

// IsNaN reports whether the numeric coercion of v is NaN.
func (v Value) IsNaN() bool {
	return math.IsNaN(v.Float())
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseRadix(s[2:], 16)
		case 'o', 'O':
			return parseRadix(s[2:], 8)
		case 'b', 'B':
			return parseRadix(s[2:], 2)
		}
	}

	if !isDecimalLiteral(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals still yield ±Inf or 0 from ParseFloat.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// ParseDecimal parses s as a plain decimal number, surrounding whitespace
// allowed. Unlike Float it rejects the empty string, radix prefixes and
// Infinity, so it suits deciding whether a text field holds a number.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !isDecimalLiteral(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseRadix accumulates digits as a float so that literals wider than 64
// bits degrade to an approximation instead of failing.
func parseRadix(digits string, base int) float64 {
	if digits == "" {
		return math.NaN()
	}
	var n float64
	for _, r := range digits {
		d, ok := digitValue(r)
		if !ok || d >= base {
			return math.NaN()
		}
		n = n*float64(base) + float64(d)
	}
	return n
}

func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}

// isDecimalLiteral restricts ParseFloat input to the plain decimal grammar,
// rejecting Go-only spellings such as "inf", "NaN", "1_000" and hex floats.
func isDecimalLiteral(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
		case r == 'e' || r == 'E':
		case r == '+' || r == '-':
			if i != 0 && s[i-1] != 'e' && s[i-1] != 'E' {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// String returns the string coercion of v.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	default:
		return "undefined"
	}
}

// KeyString returns the string used for group and split keys: null and
// missing values collapse to the empty string.
func (v Value) KeyString() string {
	if v.IsNil() {
		return ""
	}
	return v.String()
}

// FormatNumber renders f the way JavaScript's Number.prototype.toString does:
// the shortest round-trip digits, in fixed notation for magnitudes in
// [1e-6, 1e21) and in exponent notation otherwise.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[0]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + string(sign) + exp
}

func formatAny(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
