// Package relay forwards webhook envelopes to the external automation
// backend and normalizes transport failures into a single outcome the rest
// of the pipeline can reason about.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agentarchitect/leadgate/internal/metrics"
	"github.com/agentarchitect/leadgate/internal/models"
)

// ErrUpstreamUnavailable marks network errors, timeouts, and any other
// transport-level failure reaching the automation backend. Callers never see
// a raw transport error.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrMalformedReply marks a reachable upstream whose success body does not
// satisfy the response contract for its kind. Treated the same as an
// unavailable upstream: the client must never receive a partially-shaped
// reply.
var ErrMalformedReply = errors.New("malformed upstream reply")

// Config holds the webhook endpoints and the relay timeout. Endpoint
// selection is a pure function of the envelope type.
type Config struct {
	FormsURL  string // contact + lead processor
	IntakeURL string // chat-session creator
	ChatURL   string // chat-message handler
	Timeout   time.Duration
}

// Client posts envelopes to the automation backend. It never retries: a
// duplicate relay could create a duplicate lead upstream.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New constructs a relay client with a bounded per-call timeout.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Outcome is the normalized result of one relay call. For non-2xx upstream
// responses Status and Body carry the upstream's answer verbatim; Result is
// only set for parsed 2xx responses.
type Outcome struct {
	Status int
	Body   []byte
	Result *UpstreamResult
}

// OK reports whether the upstream answered with a 2xx status.
func (o *Outcome) OK() bool {
	return o.Status >= 200 && o.Status < 300
}

// UpstreamResult is the parsed success body. Which fields are populated
// depends on the envelope type.
type UpstreamResult struct {
	ID        string          `json:"id,omitempty"`
	Message   string          `json:"message,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Reply     string          `json:"reply,omitempty"`
	Blocks    json.RawMessage `json:"blocks,omitempty"`
}

func (c *Client) endpoint(kind models.SubmissionKind) string {
	switch kind {
	case models.KindIntake:
		return c.cfg.IntakeURL
	case models.KindChatMessage:
		return c.cfg.ChatURL
	default:
		return c.cfg.FormsURL
	}
}

// Relay posts the envelope to the endpoint selected by its type. Transport
// failures come back as ErrUpstreamUnavailable; 2xx bodies that violate the
// response contract come back as ErrMalformedReply. Reachable non-2xx
// responses are not an error here: the outcome carries the upstream status
// and body through for diagnosis.
func (c *Client) Relay(ctx context.Context, envelope models.WebhookEnvelope) (*Outcome, error) {
	target := c.endpoint(envelope.Type)
	if target == "" {
		return nil, fmt.Errorf("%w: no endpoint configured for kind %s", ErrUpstreamUnavailable, envelope.Type)
	}

	bodyBytes, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(request)
	metrics.RelayDuration.WithLabelValues(string(envelope.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RelayErrors.WithLabelValues(string(envelope.Type)).Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RelayErrors.WithLabelValues(string(envelope.Type)).Inc()
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstreamUnavailable, err)
	}

	outcome := &Outcome{Status: resp.StatusCode, Body: respBody}
	if !outcome.OK() {
		return outcome, nil
	}

	result, err := parseSuccess(envelope.Type, respBody)
	if err != nil {
		metrics.RelayErrors.WithLabelValues(string(envelope.Type)).Inc()
		return nil, err
	}
	outcome.Result = result
	return outcome, nil
}

// parseSuccess enforces the per-kind response contract on 2xx bodies.
func parseSuccess(kind models.SubmissionKind, body []byte) (*UpstreamResult, error) {
	var result UpstreamResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	switch kind {
	case models.KindIntake:
		// The session id must come from the upstream; the gateway never
		// fabricates one.
		if result.SessionID == "" {
			return nil, fmt.Errorf("%w: missing session_id", ErrMalformedReply)
		}
	case models.KindChatMessage:
		if result.Reply == "" {
			return nil, fmt.Errorf("%w: missing reply", ErrMalformedReply)
		}
		if err := models.ValidateBlocks(result.Blocks); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
		}
	}
	return &result, nil
}
