// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the identity service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets suited for the identity
// endpoints, which are dominated by a single indexed database lookup.
var APIBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "identity_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method"},
	)

	// TokenLookupsTotal counts token resolution attempts by outcome
	// (ok, missing_credentials, malformed_header, unknown_token, error).
	TokenLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_token_lookups_total",
			Help: "Token lookups",
		},
		[]string{"outcome"},
	)

	// RegistrationsTotal counts username registration attempts by
	// outcome (ok, invalid_username, conflict, error).
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_registrations_total",
			Help: "Username registrations",
		},
		[]string{"outcome"},
	)

	// IdentitiesCreatedTotal counts created records by kind
	// (registered, anonymous).
	IdentitiesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_identities_created_total",
			Help: "Identity records created",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		TokenLookupsTotal,
		RegistrationsTotal,
		IdentitiesCreatedTotal,
	)
}
