package api

import (
	"encoding/json"
	"strings"
	"testing"
)

// The error messages are part of the contract: callers pattern-match on
// keywords to classify failures.
func TestErrorMessageKeywords(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		keywords []string
	}{
		{"missing credentials", NewMissingCredentialsError(), []string{"need"}},
		{"malformed header", NewMalformedHeaderError(), []string{"authorization", "header"}},
		{"unknown token", NewUnknownTokenError(), []string{"token"}},
		{"invalid username", NewInvalidUsernameError("mao wtm"), []string{"invalid"}},
		{"username conflict", NewUsernameConflictError("maowtm"), []string{"existed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := strings.ToLower(tt.err.Message)
			for _, kw := range tt.keywords {
				if !strings.Contains(msg, kw) {
					t.Errorf("message %q does not contain %q", tt.err.Message, kw)
				}
			}
		})
	}
}

func TestErrorTypes(t *testing.T) {
	if got := NewMissingCredentialsError().Type; got != ErrorTypeUnauthorized {
		t.Errorf("missing credentials type = %q, want unauthorized", got)
	}
	if got := NewUnknownTokenError().Type; got != ErrorTypeUnauthorized {
		t.Errorf("unknown token type = %q, want unauthorized", got)
	}
	if got := NewMalformedHeaderError().Type; got != ErrorTypeInvalidRequest {
		t.Errorf("malformed header type = %q, want invalid_request", got)
	}
	if got := NewInvalidUsernameError("x y").Type; got != ErrorTypeInvalidRequest {
		t.Errorf("invalid username type = %q, want invalid_request", got)
	}
	if got := NewUsernameConflictError("x").Type; got != ErrorTypeInvalidRequest {
		t.Errorf("username conflict type = %q, want invalid_request", got)
	}
}

func TestErrorImplementsError(t *testing.T) {
	var err error = NewUsernameConflictError("maowtm")
	if !strings.Contains(err.Error(), "existed") {
		t.Errorf("Error() = %q, want substring %q", err.Error(), "existed")
	}
	if !strings.Contains(err.Error(), CodeUsernameConflict) {
		t.Errorf("Error() = %q, want code %q", err.Error(), CodeUsernameConflict)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	b, err := json.Marshal(ErrorResponse{Error: NewUnknownTokenError()})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Error.Type != "unauthorized" {
		t.Errorf("type = %q, want %q", decoded.Error.Type, "unauthorized")
	}
	if decoded.Error.Code != CodeUnknownToken {
		t.Errorf("code = %q, want %q", decoded.Error.Code, CodeUnknownToken)
	}
}
