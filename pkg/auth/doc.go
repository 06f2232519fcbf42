// Package auth implements the bearer-token auth gateway: parsing the
// Authorization header, resolving tokens against an IdentityStore, and
// the two HTTP operations of the identity service (resolve the current
// identity, register a username).
//
// The gateway holds no state of its own. The store is an injected
// dependency, and the entropy source used for token minting is an
// injectable io.Reader so tests can be deterministic without weakening
// production entropy.
package auth
