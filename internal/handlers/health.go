package handlers

import (
	"net/http"

	"github.com/agentarchitect/leadgate/internal/httputil"
)

// ReadinessChecker reports whether a dependency is ready to serve.
type ReadinessChecker interface {
	Ping() error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checker ReadinessChecker
}

// NewHealthHandler constructs a HealthHandler. checker may be nil, in which
// case readiness always succeeds.
func NewHealthHandler(checker ReadinessChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health handles GET /healthz for liveness probes.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /readyz for readiness probes.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		if err := h.checker.Ping(); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
