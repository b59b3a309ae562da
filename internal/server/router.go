package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentarchitect/leadgate/internal/handlers"
	"github.com/agentarchitect/leadgate/internal/middleware"
)

// NewRouter constructs the gateway's ServeMux. Submission routes sit behind
// the site CORS policy; the webhook passthrough answers its own preflight
// with a fixed policy, so it is registered outside the CORS wrapper. The
// exact-path passthrough registration wins over the /api/v1/ prefix.
func NewRouter(sub *handlers.SubmissionHandler, pass *handlers.PassthroughHandler, health *handlers.HealthHandler, cors middleware.CORSConfig) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/api/v1/submit/contact", sub.HandleContact)
	api.HandleFunc("/api/v1/submit/lead", sub.HandleLead)
	api.HandleFunc("/api/v1/intake", sub.HandleIntake)
	api.HandleFunc("/api/v1/chat/message", sub.HandleChatMessage)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", middleware.CORS(cors)(api))
	mux.HandleFunc("/api/v1/webhook/passthrough", pass.Handle)

	// Health endpoints
	mux.HandleFunc("/healthz", health.Health)
	mux.HandleFunc("/readyz", health.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
