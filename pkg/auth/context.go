package auth

import (
	"context"
	"net/http"

	"github.com/schsrch/identity/pkg/api"
)

// identityKey is a private type for the identity context key.
type identityKey struct{}

// SetIdentity stores the resolved identity record in the context.
func SetIdentity(ctx context.Context, rec *api.IdentityRecord) context.Context {
	return context.WithValue(ctx, identityKey{}, rec)
}

// IdentityFromContext retrieves the resolved identity record.
// Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *api.IdentityRecord {
	if v, ok := ctx.Value(identityKey{}).(*api.IdentityRecord); ok {
		return v
	}
	return nil
}

// RequireIdentity creates HTTP middleware that resolves the
// Authorization header against the store and attaches the record to the
// request context for downstream handlers. Requests that fail to
// resolve are rejected with the same status and body contract as
// GET /auth/.
func RequireIdentity(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, err := svc.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), rec)))
		})
	}
}
