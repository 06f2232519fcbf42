// Package postgres provides a PostgreSQL implementation of
// storage.IdentityStore. It uses pgx/v5 for connection pooling and
// relies on unique constraints to make the username check-and-insert a
// single atomic operation: under concurrent registration attempts for
// the same username, the database guarantees at most one insert wins.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schsrch/identity/pkg/api"
	"github.com/schsrch/identity/pkg/debug"
	"github.com/schsrch/identity/pkg/storage"
)

// Constraint names from the identities schema. A unique violation on
// one of these is translated into the corresponding sentinel error.
const (
	tokenConstraint    = "identities_pkey"
	usernameConstraint = "identities_username_key"
)

// Store is a PostgreSQL-backed IdentityStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.IdentityStore at compile time.
var _ storage.IdentityStore = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	debug.Log("storage", "postgres pool established",
		"max_conns", cfg.MaxConns, "migrate", cfg.MigrateOnStart)

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// CreateIdentity inserts a new identity record. Token and username
// uniqueness are enforced by the database; a failed insert leaves no
// record behind.
func (s *Store) CreateIdentity(ctx context.Context, rec *api.IdentityRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO identities (token, id, username, created_at)
		VALUES ($1, $2, $3, $4)
	`, rec.Token.Bytes(), rec.ID, rec.Username, rec.CreatedAt)

	if err != nil {
		if sentinel := duplicateKeyError(err); sentinel != nil {
			return sentinel
		}
		return fmt.Errorf("inserting identity: %w", err)
	}

	return nil
}

// GetByToken retrieves the record holding the given token.
func (s *Store) GetByToken(ctx context.Context, token api.Token) (*api.IdentityRecord, error) {
	return s.getOne(ctx, `
		SELECT token, id, username, created_at
		FROM identities
		WHERE token = $1
	`, token.Bytes())
}

// GetByUsername retrieves the record bound to the given username.
// Anonymous records (empty username) are never matched.
func (s *Store) GetByUsername(ctx context.Context, username string) (*api.IdentityRecord, error) {
	if username == "" {
		return nil, storage.ErrNotFound
	}
	return s.getOne(ctx, `
		SELECT token, id, username, created_at
		FROM identities
		WHERE username = $1
	`, username)
}

func (s *Store) getOne(ctx context.Context, query string, arg any) (*api.IdentityRecord, error) {
	var rec api.IdentityRecord
	var tokenBytes []byte

	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&tokenBytes, &rec.ID, &rec.Username, &rec.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying identity: %w", err)
	}

	if len(tokenBytes) != api.TokenSize {
		return nil, fmt.Errorf("stored token has %d bytes, want %d", len(tokenBytes), api.TokenSize)
	}
	copy(rec.Token[:], tokenBytes)

	return &rec, nil
}

// CountIdentities returns the total number of identity records.
func (s *Store) CountIdentities(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM identities").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting identities: %w", err)
	}
	return n, nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// duplicateKeyError maps a PostgreSQL unique violation (23505) to the
// matching sentinel error, or returns nil for any other error.
func duplicateKeyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	debug.Log("storage", "unique violation", "constraint", pgErr.ConstraintName)
	switch pgErr.ConstraintName {
	case usernameConstraint:
		return storage.ErrDuplicateUsername
	case tokenConstraint:
		return storage.ErrDuplicateToken
	default:
		return nil
	}
}
