package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// TokenSize is the byte length of a bearer token.
	TokenSize = 16

	// TokenHexSize is the length of a hex-encoded bearer token.
	TokenHexSize = TokenSize * 2
)

// Token is an opaque 128-bit bearer credential. A token is generated once
// from a cryptographically secure source and never reassigned.
type Token [TokenSize]byte

// NewToken draws a fresh token from src. Pass nil to use crypto/rand.
// An error from the entropy source is returned unchanged; callers must
// not fall back to a weaker source.
func NewToken(src io.Reader) (Token, error) {
	if src == nil {
		src = rand.Reader
	}
	var t Token
	if _, err := io.ReadFull(src, t[:]); err != nil {
		return Token{}, fmt.Errorf("reading token entropy: %w", err)
	}
	return t, nil
}

// ParseToken decodes a hex-encoded token. The input must be exactly
// TokenHexSize hex digits; both upper- and lowercase digits are accepted.
func ParseToken(s string) (Token, error) {
	if len(s) != TokenHexSize {
		return Token{}, fmt.Errorf("token must be %d hex characters, got %d", TokenHexSize, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Token{}, fmt.Errorf("decoding token: %w", err)
	}
	var t Token
	copy(t[:], b)
	return t, nil
}

// String returns the lowercase hex encoding of the token. This is the
// form carried in Authorization headers and registration responses.
func (t Token) String() string {
	return hex.EncodeToString(t[:])
}

// Bytes returns the raw token bytes.
func (t Token) Bytes() []byte {
	b := make([]byte, TokenSize)
	copy(b, t[:])
	return b
}
