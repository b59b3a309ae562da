package provenance

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agentarchitect/leadgate/internal/models"
)

func TestEnrich_EnvelopeTypeMatchesPayloadKind(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	e := New(func() time.Time { return fixed })

	payload := &models.ValidatedPayload{Kind: models.KindLead, Email: "a@b.com"}
	env := e.Enrich(payload, RequestContext{IP: "203.0.113.7", UserAgent: "Mozilla/5.0"})

	if env.Type != models.KindLead {
		t.Errorf("envelope type = %q, want lead", env.Type)
	}
	if env.Data.Email != "a@b.com" {
		t.Errorf("envelope data not carried through")
	}
	if !env.Meta.Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v, want injected clock value %v", env.Meta.Timestamp, fixed)
	}
	if env.Meta.IP != "203.0.113.7" {
		t.Errorf("ip = %q", env.Meta.IP)
	}
}

func TestEnrich_OmitsAbsentUTM(t *testing.T) {
	e := New(nil)
	payload := &models.ValidatedPayload{Kind: models.KindContact}

	env := e.Enrich(payload, RequestContext{IP: "1.2.3.4"})
	if env.Meta.UTM != nil {
		t.Errorf("utm = %+v, want omitted when absent", env.Meta.UTM)
	}

	env = e.Enrich(payload, RequestContext{UTM: models.UTMParams{Source: "newsletter"}})
	if env.Meta.UTM == nil || env.Meta.UTM.Source != "newsletter" {
		t.Errorf("utm = %+v, want source carried through", env.Meta.UTM)
	}
}

func TestContextFromRequest(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/submit/lead", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.195, 70.41.3.18")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("X-Origin-Page", "/services/agents")
	req.Header.Set("X-UTM-Source", "google")
	req.Header.Set("X-UTM-Campaign", "spring")

	rc := ContextFromRequest(req)
	if rc.IP != "203.0.113.195" {
		t.Errorf("ip = %q, want first X-Forwarded-For entry", rc.IP)
	}
	if rc.Page != "/services/agents" {
		t.Errorf("page = %q", rc.Page)
	}
	if rc.UTM.Source != "google" || rc.UTM.Campaign != "spring" {
		t.Errorf("utm = %+v", rc.UTM)
	}
}
