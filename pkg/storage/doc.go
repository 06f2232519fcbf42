// Package storage defines the IdentityStore contract and the sentinel
// errors shared by its adapter implementations.
//
// Uniqueness of both the token and the username is enforced by the
// storage engine itself, never by a caller-side read-then-write: two
// concurrent CreateIdentity calls for the same username must resolve to
// exactly one success and one ErrDuplicateUsername.
//
// Adapters live in the memory and postgres sub-packages.
package storage
