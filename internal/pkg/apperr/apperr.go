package apperr

import (
	"errors"
	"fmt"
)

// Sentinels for the error taxonomy shared across services. Callers classify
// with errors.Is; the HTTP layer maps each class to a response without ever
// exposing storage error text.
var (
	// ErrNotFound marks a missing guardian, student, user or link.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied marks a guardian reaching for a student it is not
	// linked to (or whose link is revoked). Rendered identically to
	// ErrNotFound so callers cannot probe for a student's existence.
	ErrAccessDenied = errors.New("access denied")
	// ErrConflict marks a uniqueness violation (email, handle, profile, code).
	ErrConflict = errors.New("conflict")
	// ErrInvalidState marks an operation against a record in the wrong state,
	// e.g. a guardian profile requested for a non-PARENT identity.
	ErrInvalidState = errors.New("invalid state")
	// ErrUpstream marks a failed collaborator call (schedule, attendance,
	// grading, billing).
	ErrUpstream = errors.New("upstream failure")
)

// ConflictError carries the conflicting field so the HTTP layer can name it.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "conflict"
	}
	return fmt.Sprintf("conflict on %s", e.Field)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Conflict builds a ConflictError for the given field.
func Conflict(field string) error {
	return &ConflictError{Field: field}
}

// ConflictField extracts the conflicting field name, if err is a conflict.
func ConflictField(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func AccessDenied(what string) error {
	return fmt.Errorf("%s: %w", what, ErrAccessDenied)
}

func InvalidState(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrInvalidState)
}

func Upstream(source string, err error) error {
	return fmt.Errorf("%s: %v: %w", source, err, ErrUpstream)
}
