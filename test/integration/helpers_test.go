// Package integration exercises the identity service end to end: the
// full middleware stack, the auth gateway, and an identity store, over
// a real HTTP listener.
package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/schsrch/identity/pkg/auth"
	"github.com/schsrch/identity/pkg/observability"
	"github.com/schsrch/identity/pkg/storage"
	"github.com/schsrch/identity/pkg/storage/memory"
	"github.com/schsrch/identity/pkg/transport"
)

// testServer wires the service the same way cmd/server does and serves
// it from an httptest listener.
type testServer struct {
	*httptest.Server
	store storage.IdentityStore
	svc   *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.New()
	svc := auth.NewService(store)

	mux := http.NewServeMux()
	mux.Handle("/auth/", observability.MetricsMiddleware(auth.NewHandler(svc)))
	mux.Handle("/papers/", auth.RequireIdentity(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := auth.IdentityFromContext(r.Context())
		w.Write([]byte("hello " + rec.Username))
	})))

	handler := transport.Chain(
		transport.Recovery(),
		transport.RequestID(),
	)(mux)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return &testServer{Server: ts, store: store, svc: svc}
}

// do issues a request and returns the status code and body.
func (ts *testServer) do(t *testing.T, method, path, authHeader string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, string(body)
}

// register creates a user and returns the hex credential.
func (ts *testServer) register(t *testing.T, username string) string {
	t.Helper()

	status, body := ts.do(t, "POST", "/auth/"+username, "")
	if status != http.StatusOK {
		t.Fatalf("POST /auth/%s: status = %d, body = %s", username, status, body)
	}

	var resp struct {
		AuthToken string `json:"authToken"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("invalid registration body %q: %v", body, err)
	}
	if len(resp.AuthToken) != 32 {
		t.Fatalf("authToken %q is not 32 hex chars", resp.AuthToken)
	}
	return resp.AuthToken
}

func assertContains(t *testing.T, body string, keywords ...string) {
	t.Helper()
	lower := strings.ToLower(body)
	for _, kw := range keywords {
		if !strings.Contains(lower, kw) {
			t.Errorf("body %q does not contain %q", body, kw)
		}
	}
}
