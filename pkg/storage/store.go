package storage

import (
	"context"

	"github.com/schsrch/identity/pkg/api"
)

// IdentityStore is the durable mapping from token to identity record.
// Implementations must be safe for unbounded concurrent readers and
// writers; uniqueness is enforced inside the store (see package doc).
type IdentityStore interface {
	// CreateIdentity inserts a new record. It returns
	// ErrDuplicateUsername when rec.Username is non-empty and taken,
	// ErrDuplicateToken on a token collision, and leaves no record
	// behind on any failure.
	CreateIdentity(ctx context.Context, rec *api.IdentityRecord) error

	// GetByToken returns the record holding the given token, or
	// ErrNotFound. Lookups never mutate state.
	GetByToken(ctx context.Context, token api.Token) (*api.IdentityRecord, error)

	// GetByUsername returns the record bound to the given non-empty
	// username, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*api.IdentityRecord, error)

	// CountIdentities returns the total number of records. Consumed by
	// the status page, not by the auth flow.
	CountIdentities(ctx context.Context) (int64, error)

	// HealthCheck verifies the store connection is functional.
	HealthCheck(ctx context.Context) error

	// Close releases connections and resources.
	Close() error
}
