package lca

import (
	"errors"
	"fmt"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, compared with errors.Is.
var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = constError("validation error")

	// ErrUnknownMetal indicates a metal outside the supported set.
	ErrUnknownMetal = constError("unknown metal")

	// ErrUnknownRoute indicates a production route other than raw or recycled.
	ErrUnknownRoute = constError("unknown production route")

	// ErrUnknownEndOfLife indicates an end-of-life option outside reuse, recycle, landfill.
	ErrUnknownEndOfLife = constError("unknown end-of-life option")

	// ErrNegativeValue indicates a negative numeric input.
	ErrNegativeValue = constError("value must be non-negative")

	// ErrNonFiniteValue indicates a NaN or infinite numeric input.
	ErrNonFiniteValue = constError("value must be finite")

	// ErrDivisionByZero is matched by every *DivisionError.
	ErrDivisionByZero = constError("division by zero")

	// ErrInvalidTables indicates reference tables that failed to load or validate.
	ErrInvalidTables = constError("invalid reference tables")
)

// Error kinds reported to callers.
const (
	KindValidation = "validation_error"
	KindDivision   = "division_error"
	KindInternal   = "internal_error"
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap exposes both ErrValidation and the specific cause.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// DivisionError reports a comparison against a zero baseline.
type DivisionError struct {
	Quantity string
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("cannot compute %s: zero baseline", e.Quantity)
}

// Unwrap returns ErrDivisionByZero.
func (e *DivisionError) Unwrap() error {
	return ErrDivisionByZero
}

// ErrorKind classifies err into one of the reported error kinds.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDivisionByZero):
		return KindDivision
	default:
		return KindInternal
	}
}
