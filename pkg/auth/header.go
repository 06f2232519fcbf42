package auth

import (
	"errors"
	"strings"

	"github.com/schsrch/identity/pkg/api"
)

// Errors returned by ParseBearer. The distinction matters: a missing
// header is a credentials problem (401), a malformed one is a client
// formatting problem (400).
var (
	ErrMissingHeader   = errors.New("no Authorization header")
	ErrMalformedHeader = errors.New("malformed Authorization header")
)

// bearerScheme is matched case-sensitively. "basic", "bearer" or any
// other scheme keyword is rejected as malformed.
const bearerScheme = "Bearer"

// ParseBearer extracts the token from a raw Authorization header value.
// The header must have the exact two-token form "Bearer <32-hex-chars>";
// anything else returns ErrMissingHeader or ErrMalformedHeader. No other
// credential carrier (query string, cookie) is accepted anywhere.
func ParseBearer(header string) (api.Token, error) {
	if header == "" {
		return api.Token{}, ErrMissingHeader
	}

	scheme, rest, found := strings.Cut(header, " ")
	if !found || scheme != bearerScheme {
		return api.Token{}, ErrMalformedHeader
	}

	tok, err := api.ParseToken(rest)
	if err != nil {
		return api.Token{}, ErrMalformedHeader
	}
	return tok, nil
}
