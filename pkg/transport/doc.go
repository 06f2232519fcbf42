// Package transport provides the HTTP server lifecycle (startup,
// signal-driven graceful shutdown) and the cross-cutting middleware
// applied around the identity handlers: panic recovery, request ID
// propagation, and structured request logging.
package transport
