package storage

import "errors"

// Sentinel errors for identity store operations.
var (
	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("identity not found")

	// ErrDuplicateUsername is returned when a non-empty username is
	// already bound to another record. This is the conflict signal of
	// the atomic check-and-insert.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrDuplicateToken is returned on a token primary-key collision.
	// Callers regenerate the token and retry; a collision must never
	// overwrite the existing record.
	ErrDuplicateToken = errors.New("token already exists")
)
