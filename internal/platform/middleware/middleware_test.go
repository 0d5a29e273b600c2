package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	var captured string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if header := rec.Header().Get(chimiddleware.RequestIDHeader); header != captured {
		t.Fatalf("expected response header %q, got %q", captured, header)
	}
	parsed, err := uuid.Parse(captured)
	if err != nil {
		t.Fatalf("request ID %q is not a UUID: %v", captured, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	var captured string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "external-id")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "external-id" {
		t.Fatalf("expected external-id, got %q", captured)
	}
}

func TestRequestIDRejectsUnsafeHeader(t *testing.T) {
	cases := map[string]string{
		"newline":   "abc\ndef",
		"too long":  strings.Repeat("a", maxRequestIDLength+1),
		"non-ascii": "idé",
	}
	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			var captured string
			h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				captured = chimiddleware.GetReqID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(chimiddleware.RequestIDHeader, id)
			h.ServeHTTP(httptest.NewRecorder(), req)

			if captured == id {
				t.Fatalf("expected unsafe request ID to be replaced")
			}
			if _, err := uuid.Parse(captured); err != nil {
				t.Fatalf("expected generated UUID, got %q", captured)
			}
		})
	}
}

func TestCORSDefaultsToAnyOrigin(t *testing.T) {
	h := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "http://localhost/v1/hello", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected Access-Control-Allow-Origin '*', got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Link") {
		t.Fatalf("expected Link in exposed headers, got %q", got)
	}
}

func TestCORSRestrictsConfiguredOrigins(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := httptest.NewRequest(http.MethodGet, "http://localhost/v1/hello", nil)
	allowed.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, allowed)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected configured origin, got %q", got)
	}

	denied := httptest.NewRequest(http.MethodGet, "http://localhost/v1/hello", nil)
	denied.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, denied)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
}

func TestCORSPreflightStopsChain(t *testing.T) {
	called := false
	h := CORS(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	req := httptest.NewRequest(http.MethodOptions, "http://localhost/v1/hello", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected preflight to be answered by CORS middleware")
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("expected Access-Control-Allow-Methods header")
	}
}

func TestVaryAddsAccept(t *testing.T) {
	h := Vary()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Add("Vary", "Origin")
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	values := rec.Header().Values("Vary")
	if len(values) != 2 || values[0] != "Accept" || values[1] != "Origin" {
		t.Fatalf("unexpected Vary values %v", values)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := Security("/api-docs")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/hello", nil))
	for _, kv := range securityHeaders {
		if got := rec.Header().Get(kv[0]); got != kv[1] {
			t.Fatalf("expected %s %q, got %q", kv[0], kv[1], got)
		}
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-docs", nil))
	if got := rec.Header().Get("X-Frame-Options"); got != "" {
		t.Fatalf("expected docs path to skip security headers, got %q", got)
	}
}
