package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentarchitect/leadgate/internal/abuse"
	"github.com/agentarchitect/leadgate/internal/handlers"
	"github.com/agentarchitect/leadgate/internal/middleware"
	"github.com/agentarchitect/leadgate/internal/pipeline"
	"github.com/agentarchitect/leadgate/internal/provenance"
	"github.com/agentarchitect/leadgate/internal/relay"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	pipe := pipeline.New(abuse.NoOpRateLimiter{}, provenance.New(nil), relay.New(relay.Config{}), nil, nil)
	sub := handlers.NewSubmissionHandler(pipe, 0)
	pass := handlers.NewPassthroughHandler("", 0, nil)
	health := handlers.NewHealthHandler(nil)
	cors := middleware.CORSConfig{
		AllowedOrigins: []string{"https://agentarchitect.example"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}
	return NewRouter(sub, pass, health, cors)
}

func TestRouterSubmissionRoutes(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{
		"/api/v1/submit/contact",
		"/api/v1/submit/lead",
		"/api/v1/intake",
		"/api/v1/chat/message",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code == http.StatusNotFound {
			t.Errorf("%s not registered", path)
		}
	}
}

func TestRouterPassthroughRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/passthrough", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// Unconfigured passthrough answers 500, proving the exact-path route won
	// over the CORS-wrapped /api/v1/ prefix.
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("passthrough returned %d, want 500 for unconfigured upstream", rr.Code)
	}
}

func TestRouterPassthroughPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/webhook/passthrough", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight returned %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("allow-methods = %q, want passthrough's own policy", got)
	}
}

func TestRouterSubmissionPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/submit/contact", nil)
	req.Header.Set("Origin", "https://agentarchitect.example")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight returned %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://agentarchitect.example" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%s returned %d, want 200", path, rr.Code)
		}
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("/metrics returned %d, want 200", rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Error("/metrics returned empty body")
	}
}

func TestRouterNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("/nonexistent returned %d, want 404", rr.Code)
	}
}

func TestRouterRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set by middleware")
	}
}
