package io

import (
	"strings"
	"time"

	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

// DefaultTypeSampleSize is the number of leading rows DetectColumnTypes
// inspects when no sample size is given.
const DefaultTypeSampleSize = 100

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.UnixDate,
}

// DetectColumnTypes classifies every column of ds from its first sample rows.
// Null, missing and empty-string cells are ignored. A column is boolean when
// every sampled value is a bool, "true", "false", 0 or 1; number when every
// value coerces to a number; date when every value is a parseable date
// string; string otherwise, including columns with no sampled values.
func DetectColumnTypes(ds *value.Dataset, sample int) map[string]model.ColumnType {
	if sample <= 0 {
		sample = DefaultTypeSampleSize
	}

	types := make(map[string]model.ColumnType, ds.Width())
	if ds == nil {
		return types
	}
	rows := ds.Rows
	if len(rows) > sample {
		rows = rows[:sample]
	}

	for _, column := range ds.ColumnNames() {
		isBoolean, isNumber, isDate, seen := true, true, true, false
		for _, row := range rows {
			v := row.Get(column)
			if s, ok := v.Str(); v.IsNil() || (ok && s == "") {
				continue
			}
			seen = true

			if !v.IsNumber() && v.IsNaN() {
				isNumber = false
			}
			if s, ok := v.Str(); !ok || !IsDateString(s) {
				isDate = false
			}
			if !isBooleanValue(v) {
				isBoolean = false
			}
		}

		switch {
		case !seen:
			types[column] = model.TypeString
		case isBoolean:
			types[column] = model.TypeBoolean
		case isNumber:
			types[column] = model.TypeNumber
		case isDate:
			types[column] = model.TypeDate
		default:
			types[column] = model.TypeString
		}
	}
	return types
}

func isBooleanValue(v value.Value) bool {
	if v.IsBool() {
		return true
	}
	if s, ok := v.Str(); ok {
		return s == "true" || s == "false"
	}
	if f, ok := v.Num(); ok {
		return f == 0 || f == 1
	}
	return false
}

// IsDateString reports whether s parses as a date or timestamp in one of the
// common ISO, US and RFC layouts.
func IsDateString(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
