// Package api defines the wire-level types of the identity service:
// bearer tokens, identity records, username validation, and the
// structured error format shared by all HTTP responses.
//
// The package has no dependencies on storage or transport; both layers
// build on the types defined here.
package api
