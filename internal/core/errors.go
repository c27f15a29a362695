package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConflict            = errors.New("conflict")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrCategoryMismatch    = errors.New("category type does not match transaction type")
	ErrNoCategoryAvailable = errors.New("no active category available")
	ErrNoAccountAvailable  = errors.New("no active account available")
	ErrEmptyDescription    = errors.New("empty description")
)

// FieldError is a single field-level constraint violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level violations so a request can report
// every broken constraint at once instead of failing on the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field violation and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// Addf appends a formatted field violation.
func (e *ValidationError) Addf(field, format string, args ...any) *ValidationError {
	return e.Add(field, fmt.Sprintf(format, args...))
}

// OrNil returns nil when no violations were recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid builds a single-field validation error.
func Invalid(field, message string) *ValidationError {
	return (&ValidationError{}).Add(field, message)
}
