package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/schsrch/identity/pkg/api"
	"github.com/schsrch/identity/pkg/observability"
)

// Handler serves the identity endpoints over HTTP.
type Handler struct {
	svc *Service
	mux *http.ServeMux
}

// NewHandler creates the HTTP adapter for the given service.
func NewHandler(svc *Service) *Handler {
	h := &Handler{
		svc: svc,
		mux: http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /auth/{$}", h.handleResolve)
	h.mux.HandleFunc("POST /auth/{$}", h.handleCreateAnonymous)
	h.mux.HandleFunc("POST /auth/{username}", h.handleRegister)

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// handleResolve handles GET /auth/: "who am I" for the presented token.
func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		observability.TokenLookupsTotal.WithLabelValues(lookupOutcome(err)).Inc()
		writeError(w, r, err)
		return
	}

	observability.TokenLookupsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, api.IdentityResponse{
		ID:       rec.ID,
		Username: rec.Username,
	})
}

// handleRegister handles POST /auth/{username}. The path value arrives
// already percent-decoded.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	rec, err := h.svc.Register(r.Context(), username)
	if err != nil {
		observability.RegistrationsTotal.WithLabelValues(registrationOutcome(err)).Inc()
		writeError(w, r, err)
		return
	}

	observability.RegistrationsTotal.WithLabelValues("ok").Inc()
	observability.IdentitiesCreatedTotal.WithLabelValues("registered").Inc()
	slog.Info("identity registered", "username", rec.Username, "id", rec.ID)

	writeJSON(w, api.RegistrationResponse{
		AuthToken: rec.Token.String(),
		Username:  rec.Username,
	})
}

// handleCreateAnonymous handles POST /auth/: issue a fresh identity
// with no bound username.
func (h *Handler) handleCreateAnonymous(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.CreateAnonymous(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.IdentitiesCreatedTotal.WithLabelValues("anonymous").Inc()
	slog.Info("anonymous identity issued", "id", rec.ID)

	writeJSON(w, api.RegistrationResponse{
		AuthToken: rec.Token.String(),
		Username:  rec.Username,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func lookupOutcome(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case api.CodeMissingCredentials:
			return "missing_credentials"
		case api.CodeMalformedHeader:
			return "malformed_header"
		case api.CodeUnknownToken:
			return "unknown_token"
		}
	}
	return "error"
}

func registrationOutcome(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case api.CodeInvalidUsername:
			return "invalid_username"
		case api.CodeUsernameConflict:
			return "conflict"
		}
	}
	return "error"
}
