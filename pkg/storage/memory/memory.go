// Package memory provides an in-memory IdentityStore for testing and
// lightweight deployments. Records are lost when the process restarts.
package memory

import (
	"context"
	"sync"

	"github.com/schsrch/identity/pkg/api"
	"github.com/schsrch/identity/pkg/storage"
)

// Store is an in-memory IdentityStore. A single mutex guards both
// indexes so that the username check and the insert are one atomic step,
// matching the unique-constraint semantics of the postgres adapter.
type Store struct {
	mu         sync.RWMutex
	byToken    map[api.Token]*api.IdentityRecord
	byUsername map[string]*api.IdentityRecord
}

// Ensure Store implements storage.IdentityStore at compile time.
var _ storage.IdentityStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		byToken:    make(map[api.Token]*api.IdentityRecord),
		byUsername: make(map[string]*api.IdentityRecord),
	}
}

// CreateIdentity inserts a record, enforcing token and username
// uniqueness under a single lock acquisition.
func (s *Store) CreateIdentity(ctx context.Context, rec *api.IdentityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byToken[rec.Token]; exists {
		return storage.ErrDuplicateToken
	}
	if rec.Username != "" {
		if _, exists := s.byUsername[rec.Username]; exists {
			return storage.ErrDuplicateUsername
		}
	}

	stored := *rec
	s.byToken[stored.Token] = &stored
	if stored.Username != "" {
		s.byUsername[stored.Username] = &stored
	}
	return nil
}

// GetByToken returns the record holding the given token.
func (s *Store) GetByToken(ctx context.Context, token api.Token) (*api.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byToken[token]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *rec
	return &out, nil
}

// GetByUsername returns the record bound to the given username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*api.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byUsername[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *rec
	return &out, nil
}

// CountIdentities returns the number of stored records.
func (s *Store) CountIdentities(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byToken)), nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
