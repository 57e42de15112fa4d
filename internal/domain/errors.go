package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrParse         = errors.New("parse error")
	ErrLookup        = errors.New("lookup failed")
	ErrPersist       = errors.New("persist failed")
	ErrUnknownPlugin = errors.New("unknown plugin")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ParseError reports a malformed or unreadable import source.
// Line is 1-based; zero means the position is unknown.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse")
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// LookupError wraps a store read failure for a single word.
type LookupError struct {
	Word string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %v", e.Word, e.Err)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

func (e *LookupError) Unwrap() error { return e.Err }

// PersistError wraps a store write failure for a single word.
type PersistError struct {
	Word string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %q: %v", e.Word, e.Err)
}

func (e *PersistError) Is(target error) bool { return target == ErrPersist }

func (e *PersistError) Unwrap() error { return e.Err }

// UnknownPluginError is returned when a format id does not resolve to a
// registered adapter. Known lists the registered ids for user-facing messages.
type UnknownPluginError struct {
	ID    string
	Known []string
}

func (e *UnknownPluginError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown plugin %q", e.ID)
	}
	return fmt.Sprintf("unknown plugin %q (available: %s)", e.ID, strings.Join(e.Known, ", "))
}

func (e *UnknownPluginError) Is(target error) bool { return target == ErrUnknownPlugin }
