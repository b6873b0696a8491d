// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every *ValidationError matches it through errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidQuadrant is returned when a quadrant is not one of the fixed values.
	ErrInvalidQuadrant = errors.New("invalid quadrant")

	// ErrInvalidRing is returned when a ring is not one of the fixed values.
	ErrInvalidRing = errors.New("invalid ring")

	// ErrBlankName is returned when a required name is empty or whitespace.
	ErrBlankName = errors.New("name cannot be blank")

	// ErrDuplicateName is returned when a name is already taken.
	ErrDuplicateName = errors.New("name has already been taken")

	// ErrMissingReference is returned when a required reference is nil or unresolved.
	ErrMissingReference = errors.New("reference must exist")
)

// FieldError describes one attribute that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// ValidationError collects field-level failures so a caller can re-present
// the submitted form with errors attached per field.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError holding a single field failure.
func NewValidationError(field, message string, err error) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message, err)
	return v
}

// Add appends a field failure.
func (e *ValidationError) Add(field, message string, err error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message, Err: err})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns e as an error when it holds failures and nil otherwise.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Field returns the first failure recorded for the named field.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap exposes ErrValidation and each field's cause to errors.Is/errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrValidation}
	for _, f := range e.Fields {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}
