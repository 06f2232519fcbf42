package transport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(mw("a"), mw("b"), mw("c"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"a", "b", "c", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRequestIDGenerated(t *testing.T) {
	var ctxID string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/auth/", nil))

	if ctxID == "" {
		t.Fatal("no request ID in context")
	}
	if len(ctxID) != 32 {
		t.Errorf("request ID %q is not 32 hex chars", ctxID)
	}
	if got := w.Header().Get("X-Request-ID"); got != ctxID {
		t.Errorf("X-Request-ID header = %q, want %q", got, ctxID)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var ctxID string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	r := httptest.NewRequest("GET", "/auth/", nil)
	r.Header.Set("X-Request-ID", "client-supplied-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if ctxID != "client-supplied-id" {
		t.Errorf("context request ID = %q, want client-supplied value", ctxID)
	}
	if got := w.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("X-Request-ID header = %q, want client-supplied value", got)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	handler := Recovery()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/auth/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Error.Type != "server_error" {
		t.Errorf("error type = %q, want server_error", resp.Error.Type)
	}
}

func TestLoggingEmitsEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/auth/", nil))

	out := buf.String()
	if !strings.Contains(out, "method=GET") {
		t.Errorf("log output %q missing method", out)
	}
	if !strings.Contains(out, "path=/auth/") {
		t.Errorf("log output %q missing path", out)
	}
	if !strings.Contains(out, "status=401") {
		t.Errorf("log output %q missing status", out)
	}
}

func TestLoggingDefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/status", nil))

	if !strings.Contains(buf.String(), "status=200") {
		t.Errorf("log output %q missing implicit 200 status", buf.String())
	}
}
