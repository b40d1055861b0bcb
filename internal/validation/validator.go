// Package validation provides reusable validators for pivot and engine
// configurations: column existence, enumerated values and integer ranges.
package validation

import (
	"fmt"
	"math"
	"slices"

	"github.com/quocdat202/pivot/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func() error

// Validate calls f.
func (f ValidatorFunc) Validate() error { return f() }

// ColumnProvider interface for types that provide column information
type ColumnProvider interface {
	HasColumn(name string) bool
	ColumnNames() []string
}

// ColumnValidator validates column existence
type ColumnValidator struct {
	ds      ColumnProvider
	columns []string
	op      string
	field   string
}

// NewColumnValidator creates a validator for the columns referenced by field
// (e.g. "group_by") of operation op.
func NewColumnValidator(ds ColumnProvider, op, field string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		ds:      ds,
		columns: columns,
		op:      op,
		field:   field,
	}
}

// Validate checks that every column exists in the dataset
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.ds.HasColumn(column) {
			err := errors.NewColumnNotFoundErrorWithSuggestions(v.op, column, v.ds.ColumnNames())
			if v.field != "" {
				err = err.WithContext(map[string]string{"field": v.field})
			}
			return err
		}
	}
	return nil
}

// OneOfValidator validates that a value belongs to an enumerated set
type OneOfValidator[T comparable] struct {
	value   T
	allowed []T
	op      string
	column  string
}

// NewOneOfValidator creates a validator for enumerated values
func NewOneOfValidator[T comparable](value T, allowed []T, op, column string) *OneOfValidator[T] {
	return &OneOfValidator[T]{
		value:   value,
		allowed: allowed,
		op:      op,
		column:  column,
	}
}

// Validate checks that the value is allowed
func (v *OneOfValidator[T]) Validate() error {
	if slices.Contains(v.allowed, v.value) {
		return nil
	}
	return errors.NewValidationError(v.op, v.column,
		fmt.Sprintf("invalid value %v, expected one of %v", v.value, v.allowed))
}

// RangeValidator validates that an integer lies within [min, max]
type RangeValidator struct {
	name  string
	value int
	min   int
	max   int
	op    string
}

// NewRangeValidator creates a validator for inclusive integer ranges
func NewRangeValidator(name string, value, minValue, maxValue int, op string) *RangeValidator {
	return &RangeValidator{
		name:  name,
		value: value,
		min:   minValue,
		max:   maxValue,
		op:    op,
	}
}

// NewMinValidator creates a range validator with no upper bound.
func NewMinValidator(name string, value, minValue int, op string) *RangeValidator {
	return NewRangeValidator(name, value, minValue, math.MaxInt, op)
}

// Validate checks if the value is within bounds
func (v *RangeValidator) Validate() error {
	if v.value >= v.min && v.value <= v.max {
		return nil
	}
	var message string
	if v.max == math.MaxInt {
		message = fmt.Sprintf("%s must be at least %d, got %d", v.name, v.min, v.value)
	} else {
		message = fmt.Sprintf("%s must be within [%d, %d], got %d", v.name, v.min, v.max, v.value)
	}
	return errors.NewValidationError(v.op, "", message)
}

// ValidateAll runs every validator and joins all failures.
func ValidateAll(validators ...Validator) error {
	var errs []error
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
