package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/schsrch/identity/pkg/api"
	"github.com/schsrch/identity/pkg/debug"
	"github.com/schsrch/identity/pkg/storage"
)

// maxMintAttempts bounds token regeneration on the astronomically
// unlikely primary-key collision. A collision is never resolved by
// overwriting the existing record.
const maxMintAttempts = 3

// Service implements the identity operations over an IdentityStore.
type Service struct {
	store storage.IdentityStore
	rand  io.Reader
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRandSource sets the entropy source for token minting.
// The default is crypto/rand.
func WithRandSource(r io.Reader) Option {
	return func(s *Service) { s.rand = r }
}

// WithClock sets the clock used for record creation times. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service over the given store.
func NewService(store storage.IdentityStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve looks up the identity named by a raw Authorization header
// value. Client-input failures are returned as *api.APIError; storage
// failures are returned unwrapped for the transport layer to surface
// as a server error.
func (s *Service) Resolve(ctx context.Context, header string) (*api.IdentityRecord, error) {
	tok, err := ParseBearer(header)
	switch {
	case errors.Is(err, ErrMissingHeader):
		return nil, api.NewMissingCredentialsError()
	case errors.Is(err, ErrMalformedHeader):
		return nil, api.NewMalformedHeaderError()
	case err != nil:
		return nil, err
	}

	rec, err := s.store.GetByToken(ctx, tok)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, api.NewUnknownTokenError()
	}
	if err != nil {
		return nil, fmt.Errorf("resolving token: %w", err)
	}
	debug.Log("auth", "token resolved",
		"token", debug.Truncate(tok.String(), 8),
		"username", rec.Username)
	return rec, nil
}

// Register binds a chosen username to a freshly minted identity.
// The username must be non-empty and pass validation; uniqueness is
// enforced atomically by the store.
func (s *Service) Register(ctx context.Context, username string) (*api.IdentityRecord, error) {
	if username == "" || !api.ValidateUsername(username) {
		return nil, api.NewInvalidUsernameError(username)
	}
	return s.create(ctx, username)
}

// CreateAnonymous issues a fresh identity with no bound username.
// Anonymous records satisfy the same token-uniqueness invariants.
func (s *Service) CreateAnonymous(ctx context.Context) (*api.IdentityRecord, error) {
	return s.create(ctx, "")
}

// create mints a token and inserts the record, regenerating the token
// on a collision. Exactly one durable write happens on success, zero on
// any failure.
func (s *Service) create(ctx context.Context, username string) (*api.IdentityRecord, error) {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		tok, err := api.NewToken(s.rand)
		if err != nil {
			return nil, fmt.Errorf("minting token: %w", err)
		}

		rec := &api.IdentityRecord{
			ID:        uuid.NewString(),
			Token:     tok,
			Username:  username,
			CreatedAt: s.now(),
		}

		err = s.store.CreateIdentity(ctx, rec)
		switch {
		case err == nil:
			debug.Log("auth", "identity created",
				"id", rec.ID, "username", rec.Username)
			return rec, nil
		case errors.Is(err, storage.ErrDuplicateToken):
			debug.Log("auth", "token collision, regenerating", "attempt", attempt+1)
			continue
		case errors.Is(err, storage.ErrDuplicateUsername):
			return nil, api.NewUsernameConflictError(username)
		default:
			return nil, fmt.Errorf("creating identity: %w", err)
		}
	}
	return nil, fmt.Errorf("token collision persisted after %d attempts", maxMintAttempts)
}
