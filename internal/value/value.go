// Package value provides the loosely-typed cell value used throughout the pivot
// engine. A Value is a closed variant over missing, null, string, number and
// boolean payloads, with coercion rules matching the JavaScript abstract
// operations ToNumber and ToString so that filters, sorting and grouping behave
// the same way they do in the browser tool the settings are shared with.
package value

import (
	"math"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindMissing is the zero kind: the column is absent from the row.
	KindMissing Kind = iota
	// KindNull is an explicit null cell.
	KindNull
	KindString
	KindNumber
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is an immutable cell value. The zero Value is Missing.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Missing returns the missing value.
func Missing() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a numeric value from an integer.
func Int(i int) Value { return Value{kind: KindNumber, num: float64(i)} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Of converts a Go value into a Value. Unsupported types become strings
// through their default formatting so that no input is ever rejected.
func Of(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	default:
		return String(formatAny(x))
	}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNull reports whether v is an explicit null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNil reports whether v is null or missing.
func (v Value) IsNil() bool { return v.kind == KindNull || v.kind == KindMissing }

// IsNumber reports whether v holds a number payload. NaN counts.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// IsString reports whether v holds a string payload.
func (v Value) IsString() bool { return v.kind == KindString }

// IsBool reports whether v holds a boolean payload.
func (v Value) IsBool() bool { return v.kind == KindBool }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// BoolValue returns the boolean payload and whether v is a boolean.
func (v Value) BoolValue() (bool, bool) { return v.b, v.kind == KindBool }

// Interface returns v as a plain Go value: nil, string, float64 or bool.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// StrictEqual compares two values by kind and payload. NaN is never equal to
// anything, null equals only null, and missing equals only missing.
func StrictEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindString:
		return a.str == b.str
	case KindNumber:
		if math.IsNaN(a.num) || math.IsNaN(b.num) {
			return false
		}
		return a.num == b.num
	case KindBool:
		return a.b == b.b
	default:
		return true
	}
}
