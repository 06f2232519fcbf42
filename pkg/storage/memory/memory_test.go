package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/schsrch/identity/pkg/api"
	"github.com/schsrch/identity/pkg/storage"
)

func makeRecord(t *testing.T, username string) *api.IdentityRecord {
	t.Helper()
	tok, err := api.NewToken(nil)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	return &api.IdentityRecord{
		ID:        uuid.NewString(),
		Token:     tok,
		Username:  username,
		CreatedAt: time.Now(),
	}
}

func TestCreateAndGetByToken(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := makeRecord(t, "alice")
	if err := s.CreateIdentity(ctx, rec); err != nil {
		t.Fatalf("CreateIdentity failed: %v", err)
	}

	got, err := s.GetByToken(ctx, rec.Token)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("ID = %q, want %q", got.ID, rec.ID)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
	if got.Token != rec.Token {
		t.Errorf("Token = %v, want %v", got.Token, rec.Token)
	}
}

func TestGetByTokenNotFound(t *testing.T) {
	s := New()
	tok, _ := api.NewToken(nil)

	_, err := s.GetByToken(context.Background(), tok)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByUsername(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := makeRecord(t, "bob")
	if err := s.CreateIdentity(ctx, rec); err != nil {
		t.Fatalf("CreateIdentity failed: %v", err)
	}

	got, err := s.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.Token != rec.Token {
		t.Errorf("Token mismatch for username lookup")
	}

	if _, err := s.GetByUsername(ctx, "carol"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown username, got %v", err)
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateIdentity(ctx, makeRecord(t, "maowtm")); err != nil {
		t.Fatalf("first CreateIdentity failed: %v", err)
	}

	err := s.CreateIdentity(ctx, makeRecord(t, "maowtm"))
	if !errors.Is(err, storage.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	// The rejection left nothing behind beyond the first record.
	n, _ := s.CountIdentities(ctx)
	if n != 1 {
		t.Errorf("CountIdentities = %d, want 1", n)
	}
}

func TestEmptyUsernamesDoNotConflict(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateIdentity(ctx, makeRecord(t, "")); err != nil {
		t.Fatalf("first anonymous CreateIdentity failed: %v", err)
	}
	if err := s.CreateIdentity(ctx, makeRecord(t, "")); err != nil {
		t.Fatalf("second anonymous CreateIdentity failed: %v", err)
	}
}

func TestDuplicateTokenRejected(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := makeRecord(t, "dave")
	if err := s.CreateIdentity(ctx, rec); err != nil {
		t.Fatalf("CreateIdentity failed: %v", err)
	}

	clash := makeRecord(t, "erin")
	clash.Token = rec.Token
	if err := s.CreateIdentity(ctx, clash); !errors.Is(err, storage.ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}

	// The original record must not have been overwritten.
	got, err := s.GetByToken(ctx, rec.Token)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if got.Username != "dave" {
		t.Errorf("record was overwritten: username = %q", got.Username)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := makeRecord(t, "frank")
	s.CreateIdentity(ctx, rec)

	got, _ := s.GetByToken(ctx, rec.Token)
	got.Username = "mutated"

	again, _ := s.GetByToken(ctx, rec.Token)
	if again.Username != "frank" {
		t.Error("mutating a returned record changed the stored record")
	}
}

func TestConcurrentRegistrationOnlyOneWins(t *testing.T) {
	s := New()
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateIdentity(ctx, makeRecord(t, "contested"))
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, storage.ErrDuplicateUsername):
			conflict++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d creations succeeded, want exactly 1", ok)
	}
	if conflict != attempts-1 {
		t.Errorf("%d conflicts, want %d", conflict, attempts-1)
	}
}

func TestCountIdentities(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, name := range []string{"a", "b", ""} {
		if err := s.CreateIdentity(ctx, makeRecord(t, name)); err != nil {
			t.Fatalf("CreateIdentity %d failed: %v", i, err)
		}
	}

	n, err := s.CountIdentities(ctx)
	if err != nil {
		t.Fatalf("CountIdentities failed: %v", err)
	}
	if n != 3 {
		t.Errorf("CountIdentities = %d, want 3", n)
	}
}
