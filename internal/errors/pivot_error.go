// Package errors provides standardized error types for pivot operations.
// PivotError carries the failing operation and column, an optional hint and
// free-form context, and supports wrapping through Unwrap.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorLevel controls how much detail Format includes.
type ErrorLevel int

const (
	// ErrorLevelSimple includes only the operation and message.
	ErrorLevelSimple ErrorLevel = iota
	// ErrorLevelDetailed adds the hint.
	ErrorLevelDetailed
	// ErrorLevelDebug adds context entries and the cause.
	ErrorLevelDebug
)

// PivotError represents standardized errors across configuration, ingestion,
// export and codec operations.
type PivotError struct {
	Op      string // Operation name (e.g., "Validate", "ReadCSV", "Export")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
	Hint    string
	Context map[string]string
}

// Error implements the error interface
func (e *PivotError) Error() string {
	return e.Format(ErrorLevelDetailed)
}

// Format renders the error at the requested level of detail.
func (e *PivotError) Format(level ErrorLevel) string {
	var b strings.Builder
	if e.Column != "" {
		fmt.Fprintf(&b, "%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	} else {
		fmt.Fprintf(&b, "%s operation failed: %s", e.Op, e.Message)
	}

	if level >= ErrorLevelDetailed && e.Hint != "" {
		b.WriteString(". Hint: ")
		b.WriteString(e.Hint)
	}

	if level >= ErrorLevelDebug {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, e.Context[k])
		}
		if e.Cause != nil {
			fmt.Fprintf(&b, "\n  cause: %v", e.Cause)
		}
	}
	return b.String()
}

// Unwrap returns the underlying cause for error wrapping support
func (e *PivotError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *PivotError) Is(target error) bool {
	if pe, ok := target.(*PivotError); ok {
		return e.Op == pe.Op && e.Column == pe.Column && e.Message == pe.Message
	}
	return false
}

// WithHint returns a copy of e carrying hint.
func (e *PivotError) WithHint(hint string) *PivotError {
	out := e.clone()
	out.Hint = hint
	return out
}

// WithCause returns a copy of e wrapping cause.
func (e *PivotError) WithCause(cause error) *PivotError {
	out := e.clone()
	out.Cause = cause
	return out
}

// WithContext returns a copy of e with ctx merged into its context.
func (e *PivotError) WithContext(ctx map[string]string) *PivotError {
	out := e.clone()
	out.Context = make(map[string]string, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		out.Context[k] = v
	}
	for k, v := range ctx {
		out.Context[k] = v
	}
	return out
}

func (e *PivotError) clone() *PivotError {
	out := *e
	return &out
}

// Common error constructors for consistent error creation

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *PivotError {
	return &PivotError{
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewColumnNotFoundErrorWithSuggestions creates a column-not-found error whose
// hint names the closest available columns.
func NewColumnNotFoundErrorWithSuggestions(op, column string, available []string) *PivotError {
	err := NewColumnNotFoundError(op, column)
	var hint strings.Builder
	if similar := findSimilarColumns(column, available); len(similar) > 0 {
		fmt.Fprintf(&hint, "Did you mean '%s'? ", similar[0])
	}
	fmt.Fprintf(&hint, "Available columns: [%s]", strings.Join(available, ", "))
	return err.WithHint(hint.String())
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *PivotError {
	return &PivotError{
		Op:      op,
		Message: message,
	}
}

// NewUnsupportedFormatError creates an error for unrecognised file or codec
// formats.
func NewUnsupportedFormatError(op, format string, supported []string) *PivotError {
	err := &PivotError{
		Op:      op,
		Message: fmt.Sprintf("unsupported format: %s", format),
		Cause:   ErrUnsupportedFormat,
	}
	if len(supported) > 0 {
		err.Hint = "Supported formats: " + strings.Join(supported, ", ")
	}
	return err
}

// NewValidationError creates an error for input validation failures
func NewValidationError(op, column, message string) *PivotError {
	return &PivotError{
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewConfigurationError creates an error for an invalid configuration parameter.
func NewConfigurationError(param string, value interface{}, valid []string) *PivotError {
	err := &PivotError{
		Op:      "Config",
		Message: fmt.Sprintf("invalid value for parameter '%s' (value: %v)", param, value),
	}
	if len(valid) > 0 {
		err.Hint = "Valid options: " + strings.Join(valid, ", ")
	}
	return err
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *PivotError {
	return &PivotError{
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// Sentinel errors
var (
	// ErrUnsupportedFormat is wrapped by every unsupported-format error.
	ErrUnsupportedFormat = stderrors.New("unsupported format")

	// ErrEmptyInput indicates a source without a header or any data.
	ErrEmptyInput = &PivotError{
		Op:      "Read",
		Message: "input contains no data",
	}
)

// Join combines errs the way errors.Join does, returning nil when every
// element is nil.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
