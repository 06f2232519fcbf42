package api

import "time"

// IdentityRecord is the durable identity entity: an unforgeable bearer
// token, an optional human-chosen username, and the insertion timestamp.
// Records are immutable after creation; this core never updates or
// deletes them.
type IdentityRecord struct {
	// ID is the opaque record identifier exposed to clients. It carries
	// no meaning beyond equality and is distinct from the token, which
	// is the secret credential.
	ID string

	// Token is the bearer credential and the record's primary key.
	Token Token

	// Username is empty for anonymous identities. Non-empty usernames
	// are globally unique and satisfy ValidateUsername.
	Username string

	// CreatedAt is set at insertion and is informational only; no
	// expiry logic reads it.
	CreatedAt time.Time
}

// IdentityResponse is the body of a successful GET /auth/ resolution.
type IdentityResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// RegistrationResponse is the body of a successful POST /auth/{username}
// (or anonymous POST /auth/). AuthToken is the hex credential the client
// must present on subsequent requests.
type RegistrationResponse struct {
	AuthToken string `json:"authToken"`
	Username  string `json:"username"`
}

// StatusResponse is the count read consumed by the status page.
type StatusResponse struct {
	Identities int64 `json:"identities"`
}
