// Package provenance attaches request metadata to validated payloads before
// relay. The metadata rides in its own envelope section so user-supplied data
// and server-observed data never mix.
package provenance

import (
	"net/http"
	"time"

	"github.com/agentarchitect/leadgate/internal/httputil"
	"github.com/agentarchitect/leadgate/internal/models"
)

// Enricher builds webhook envelopes. The clock is injected so envelope
// timestamps are deterministic in tests.
type Enricher struct {
	now func() time.Time
}

// New constructs an Enricher. A nil clock defaults to time.Now.
func New(now func() time.Time) *Enricher {
	if now == nil {
		now = time.Now
	}
	return &Enricher{now: now}
}

// RequestContext is the slice of the HTTP request the enricher reads.
type RequestContext struct {
	IP        string
	UserAgent string
	Page      string
	UTM       models.UTMParams
}

// ContextFromRequest extracts provenance inputs from an HTTP request.
// The originating page and UTM parameters arrive as headers set by the
// site's client code.
func ContextFromRequest(r *http.Request) RequestContext {
	return RequestContext{
		IP:        httputil.GetClientIP(r),
		UserAgent: r.Header.Get("User-Agent"),
		Page:      r.Header.Get("X-Origin-Page"),
		UTM: models.UTMParams{
			Source:   r.Header.Get("X-UTM-Source"),
			Medium:   r.Header.Get("X-UTM-Medium"),
			Campaign: r.Header.Get("X-UTM-Campaign"),
			Term:     r.Header.Get("X-UTM-Term"),
			Content:  r.Header.Get("X-UTM-Content"),
		},
	}
}

// Enrich wraps a validated payload in a WebhookEnvelope. It never fails;
// absent optional context fields are simply omitted.
func (e *Enricher) Enrich(payload *models.ValidatedPayload, reqCtx RequestContext) models.WebhookEnvelope {
	meta := models.ProvenanceMeta{
		IP:        reqCtx.IP,
		UserAgent: reqCtx.UserAgent,
		Timestamp: e.now().UTC(),
		Page:      reqCtx.Page,
	}
	if !reqCtx.UTM.IsZero() {
		utm := reqCtx.UTM
		meta.UTM = &utm
	}
	return models.WebhookEnvelope{
		Type: payload.Kind,
		Data: *payload,
		Meta: meta,
	}
}
