package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/agentarchitect/leadgate/internal/pipeline"
	"github.com/agentarchitect/leadgate/internal/relay"
	"github.com/agentarchitect/leadgate/internal/validate"
)

func TestShapeOutcomeStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		outcome    pipeline.Outcome
		wantStatus int
	}{
		{"invalid input", pipeline.Outcome{Code: pipeline.CodeInvalidInput}, http.StatusBadRequest},
		{"potential spam", pipeline.Outcome{Code: pipeline.CodePotentialSpam}, http.StatusBadRequest},
		{"rate limited", pipeline.Outcome{Code: pipeline.CodeRateLimited, RetryIn: time.Minute}, http.StatusTooManyRequests},
		{"upstream unavailable", pipeline.Outcome{Code: pipeline.CodeUpstreamUnavailable}, http.StatusBadGateway},
		{"server error", pipeline.Outcome{Code: pipeline.CodeServerError}, http.StatusInternalServerError},
		{"success", pipeline.Outcome{OK: true, Result: &relay.UpstreamResult{ID: "x"}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := shapeOutcome(tt.outcome)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.OK != tt.outcome.OK {
				t.Errorf("ok = %v, want %v", resp.OK, tt.outcome.OK)
			}
		})
	}
}

func TestShapeOutcomeRateLimitedCarriesRetry(t *testing.T) {
	_, resp := shapeOutcome(pipeline.Outcome{Code: pipeline.CodeRateLimited, RetryIn: 90 * time.Second})
	if resp.RetryInMS != 90000 {
		t.Errorf("retry_in_ms = %d, want 90000", resp.RetryInMS)
	}
}

func TestShapeOutcomeFieldErrorsPassThrough(t *testing.T) {
	fields := validate.FieldErrors{"email": "email is not valid"}
	_, resp := shapeOutcome(pipeline.Outcome{Code: pipeline.CodeInvalidInput, Fields: fields})
	if resp.Fields["email"] != "email is not valid" {
		t.Errorf("fields = %v, want email entry preserved", resp.Fields)
	}
}

func TestShapeOutcomeSuccessVariants(t *testing.T) {
	t.Run("upstream id suppresses generated id", func(t *testing.T) {
		_, resp := shapeOutcome(pipeline.Outcome{OK: true, Result: &relay.UpstreamResult{ID: "lead_1"}})
		if resp.ID != "lead_1" {
			t.Errorf("id = %q, want lead_1", resp.ID)
		}
	})

	t.Run("empty result gets generated id", func(t *testing.T) {
		_, resp := shapeOutcome(pipeline.Outcome{OK: true, Result: &relay.UpstreamResult{}})
		if resp.ID == "" {
			t.Error("id is empty, want a generated one")
		}
		if resp.Message != "Submission received" {
			t.Errorf("message = %q, want default acknowledgement", resp.Message)
		}
	})

	t.Run("session id becomes session object", func(t *testing.T) {
		_, resp := shapeOutcome(pipeline.Outcome{OK: true, Result: &relay.UpstreamResult{SessionID: "sess_1"}})
		if resp.Session == nil || resp.Session.ID != "sess_1" {
			t.Errorf("session = %+v, want id sess_1", resp.Session)
		}
		if resp.ID != "" {
			t.Errorf("id = %q, want none alongside a session", resp.ID)
		}
	})

	t.Run("chat reply suppresses id and message", func(t *testing.T) {
		blocks := json.RawMessage(`{"summary":"s","recommendations":[],"ideas":[],"plan_7d":[]}`)
		_, resp := shapeOutcome(pipeline.Outcome{OK: true, Result: &relay.UpstreamResult{Reply: "hi", Blocks: blocks}})
		if resp.Reply != "hi" {
			t.Errorf("reply = %q, want hi", resp.Reply)
		}
		if resp.ID != "" || resp.Message != "" {
			t.Errorf("id/message = %q/%q, want empty on chat replies", resp.ID, resp.Message)
		}
	})
}
