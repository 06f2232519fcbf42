package api

import "unicode"

// ValidateUsername reports whether a username is acceptable for
// registration. A username must not contain whitespace or control
// characters (space, tab, newline, NUL, ...). The empty string is valid:
// it denotes an anonymous identity, and machine-generated usernames
// (for example a token's own hex form) always pass.
func ValidateUsername(username string) bool {
	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
