package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports bookings that overlap the requested interval.
// Conflicts is empty when storage rejected the write on its own.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	msg := "boat is not available for the selected dates"
	if len(e.Conflicts) == 0 {
		return msg
	}
	names := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		names = append(names, c.CustomerName)
	}
	return msg + "; conflicting bookings: " + strings.Join(names, ", ")
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
