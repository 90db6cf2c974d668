package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared by repositories, services and the HTTP error formatter.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// FieldErrors maps a field name to its (localized) message.
type FieldErrors map[string]string

// ValidationError carries field-level messages. It unwraps to ErrValidation.
type ValidationError struct {
	Message string
	Fields  FieldErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError with a single message and optional fields.
func NewValidationError(message string, fields FieldErrors) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// MessageError attaches a user-facing message to a sentinel error.
type MessageError struct {
	Kind    error
	Message string
}

func (e *MessageError) Error() string { return e.Message }
func (e *MessageError) Unwrap() error { return e.Kind }

// NotFound returns an ErrNotFound carrying a user-facing message.
func NotFound(message string) error { return &MessageError{Kind: ErrNotFound, Message: message} }

// Conflict returns an ErrConflict carrying a user-facing message.
func Conflict(message string) error { return &MessageError{Kind: ErrConflict, Message: message} }

// Forbidden returns an ErrForbidden carrying a user-facing message.
func Forbidden(message string) error { return &MessageError{Kind: ErrForbidden, Message: message} }
