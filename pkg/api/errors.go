package api

import "fmt"

// ErrorType represents the category of an API error and determines the
// HTTP status code.
type ErrorType string

const (
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeUnauthorized   ErrorType = "unauthorized"
	ErrorTypeServerError    ErrorType = "server_error"
)

// Error codes for the authentication failure taxonomy. Clients can
// branch on the code; the message carries the human-readable detail.
const (
	CodeMissingCredentials = "missing_credentials"
	CodeMalformedHeader    = "malformed_header"
	CodeUnknownToken       = "unknown_token"
	CodeInvalidUsername    = "invalid_username"
	CodeUsernameConflict   = "username_conflict"
)

// APIError is the structured error carried in every non-2xx response.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the
// top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewMissingCredentialsError signals an absent Authorization header.
// The message mentions "need" so callers can pattern-match it.
func NewMissingCredentialsError() *APIError {
	return &APIError{
		Type:    ErrorTypeUnauthorized,
		Code:    CodeMissingCredentials,
		Message: "you need to supply an Authorization header to use this endpoint",
	}
}

// NewMalformedHeaderError signals a present but malformed Authorization
// header. The message mentions both "authorization" and "header" to
// distinguish a formatting error from a credentials error.
func NewMalformedHeaderError() *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Code:    CodeMalformedHeader,
		Message: "the Authorization header must have the form \"Bearer <token>\"",
	}
}

// NewUnknownTokenError signals a well-formed token that is not present
// in the store. The message mentions "token".
func NewUnknownTokenError() *APIError {
	return &APIError{
		Type:    ErrorTypeUnauthorized,
		Code:    CodeUnknownToken,
		Message: "the token provided is not recognized",
	}
}

// NewInvalidUsernameError signals a username failing character-class
// validation. The message mentions "invalid".
func NewInvalidUsernameError(username string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Code:    CodeInvalidUsername,
		Message: fmt.Sprintf("username %q is invalid: whitespace and control characters are not allowed", username),
	}
}

// NewUsernameConflictError signals a username already bound to another
// record. The message mentions "existed".
func NewUsernameConflictError(username string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Code:    CodeUsernameConflict,
		Message: fmt.Sprintf("username %q already existed", username),
	}
}

// NewServerError creates an APIError for internal failures (storage or
// entropy errors). Client-supplied detail is never echoed here.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}
