package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/schsrch/identity/pkg/api"
)

// HTTPStatusFromError maps an APIError type to the corresponding HTTP
// status code. Status codes distinguish "you didn't authenticate" (401)
// from "your request was malformed" (400).
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteAPIError writes a JSON error response using the ErrorResponse
// wrapper format, deriving the HTTP status code from the error type.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusFromError(apiErr))
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// writeError maps any error to an HTTP response. Client-input errors
// carry their keyword messages unchanged; everything else (storage or
// entropy failure) is logged and surfaced as an opaque server error,
// never masked as a client error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Type != api.ErrorTypeServerError {
		WriteAPIError(w, apiErr)
		return
	}

	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	WriteAPIError(w, api.NewServerError("internal server error"))
}
