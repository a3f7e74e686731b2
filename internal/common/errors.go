// Package common defines shared constants and sentinel errors used across
// client and server layers of todokeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrValidation     = errors.New("validation error")
	ErrConflict       = errors.New("conflict")
	ErrStorage        = errors.New("storage error")
	ErrRateLimited    = errors.New("too many attempts")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ValidationError reports a missing or malformed input field. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictKind tells a uniqueness violation apart from a referential guard.
type ConflictKind int

const (
	ConflictDuplicate ConflictKind = iota
	ConflictDependents
)

// ConflictError reports a uniqueness violation or a referential guard.
// It matches ErrConflict with errors.Is.
type ConflictError struct {
	Kind    ConflictKind
	Message string
}

// NewConflictError builds a ConflictError of the given kind.
func NewConflictError(kind ConflictKind, message string) *ConflictError {
	return &ConflictError{Kind: kind, Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
