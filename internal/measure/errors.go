package measure

import (
	"errors"
	"fmt"
)

// constError is a string type that implements the error interface.
// Using a custom type allows sentinel errors to be declared as constants.
type constError string

func (e constError) Error() string { return string(e) }

// Error kinds. Every error produced by a calculator or a checked constructor
// wraps exactly one of these, so callers can branch with errors.Is.
const (
	// ErrValidation indicates a violated domain relationship, e.g. OG below FG.
	ErrValidation = constError("validation error")

	// ErrOutOfRange indicates a value outside its unit's legal domain.
	ErrOutOfRange = constError("out of range")

	// ErrMissingInput indicates a required parameter or measurement was not supplied.
	ErrMissingInput = constError("missing input")

	// ErrParse indicates a textual parameter could not be read as the expected type.
	ErrParse = constError("parse error")

	// ErrCalculation indicates a computation-time failure not covered by the other kinds.
	ErrCalculation = constError("calculation error")
)

// Error is a calculation failure of a given kind.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind constError

	// Field names the offending input, when there is one.
	Field string

	// Message is the human-readable detail.
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the error kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind constError, field, format string, args ...any) error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a violated domain relationship.
func Validation(format string, args ...any) error {
	return newError(ErrValidation, "", format, args...)
}

// OutOfRange reports a value outside the legal range of a unit.
func OutOfRange(format string, args ...any) error {
	return newError(ErrOutOfRange, "", format, args...)
}

// MissingInput reports that field was required but not supplied.
func MissingInput(field string) error {
	return newError(ErrMissingInput, field, "%s is required", field)
}

// MissingInputf reports missing input with a custom message.
func MissingInputf(format string, args ...any) error {
	return newError(ErrMissingInput, "", format, args...)
}

// ParseError reports that value could not be parsed for field.
func ParseError(field, value string) error {
	return newError(ErrParse, field, "invalid %s: %q", field, value)
}

// Calculation reports a computation failure.
func Calculation(format string, args ...any) error {
	return newError(ErrCalculation, "", format, args...)
}

// KindOf returns the name of the error kind wrapped by err, or "" when err
// carries none of the measure kinds.
func KindOf(err error) string {
	for _, kind := range []constError{ErrValidation, ErrOutOfRange, ErrMissingInput, ErrParse, ErrCalculation} {
		if errors.Is(err, kind) {
			return string(kind)
		}
	}
	return ""
}
