package repositories

import "errors"

// Sentinel errors shared by all repository implementations so callers can
// branch with errors.Is instead of matching error strings.
var (
	// ErrNotFound is returned when no document matches the query.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateEmail is returned when a user insert violates the unique
	// email index.
	ErrDuplicateEmail = errors.New("email already registered")
)
