package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/agentarchitect/leadgate/internal/httputil"
	"github.com/agentarchitect/leadgate/internal/logging"
	"github.com/agentarchitect/leadgate/internal/metrics"
)

// errWebhookNotConfigured is the fixed message returned when no upstream
// passthrough URL is configured.
const errWebhookNotConfigured = "Webhook URL not configured"

// PassthroughHandler forwards an arbitrary JSON body to one configured
// upstream URL and mirrors the upstream's status code and body byte for
// byte. It exists for the chatbot widget, which talks to the automation
// backend directly through this boundary.
type PassthroughHandler struct {
	upstreamURL string
	client      *http.Client
	logger      *logging.Logger
}

// NewPassthroughHandler constructs a PassthroughHandler with a bounded
// upstream timeout.
func NewPassthroughHandler(upstreamURL string, timeout time.Duration, logger *logging.Logger) *PassthroughHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PassthroughHandler{
		upstreamURL: upstreamURL,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// Handle serves POST and OPTIONS on the passthrough route.
func (h *PassthroughHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
		h.forward(w, r)
	default:
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (h *PassthroughHandler) forward(w http.ResponseWriter, r *http.Request) {
	if h.upstreamURL == "" {
		metrics.PassthroughRequests.WithLabelValues("unconfigured").Inc()
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": errWebhookNotConfigured})
		return
	}

	request, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.upstreamURL, r.Body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		request.Header.Set("Content-Type", ct)
	} else {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(request)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer resp.Body.Close()

	metrics.PassthroughRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	// Mirror the upstream answer byte for byte.
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// The client went away mid-copy; nothing to answer anymore.
		h.logger.DebugContext(r.Context(), "passthrough copy aborted", "error", err.Error())
	}
}

func (h *PassthroughHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	metrics.PassthroughRequests.WithLabelValues("error").Inc()
	h.logger.WarnContext(r.Context(), "webhook passthrough failed", "error", err.Error())
	httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
