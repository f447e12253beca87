// internal/errors/errors.go
package errors

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Engine error taxonomy. Every public engine operation reports expected
// failures as one of these sentinels so callers can branch with errors.Is.
var (
	// ErrAuth covers missing/invalid tokens and credential mismatches.
	// Login deliberately never says whether the email or the secret was
	// wrong, to avoid user enumeration.
	ErrAuth = errors.New("authentication failed")

	// ErrConflict is returned when registration reuses an email.
	ErrConflict = errors.New("email already registered")

	// ErrNotFound is returned when an operation targets a user id that is
	// not in the directory.
	ErrNotFound = errors.New("user not found")
)

// Auth wraps ErrAuth with a short reason for logs.
func Auth(msg string) error {
	return fmt.Errorf("%w: %s", ErrAuth, msg)
}

// Conflict wraps ErrConflict with the conflicting value's description.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// NotFound wraps ErrNotFound.
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Map converts repo/infra errors into the engine taxonomy.
// Keeps the service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return err

	default:
		return fmt.Errorf("storage: %w", err)
	}
}
