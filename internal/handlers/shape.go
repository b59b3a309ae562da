package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/agentarchitect/leadgate/internal/models"
	"github.com/agentarchitect/leadgate/internal/pipeline"
	"github.com/agentarchitect/leadgate/internal/validate"
)

// APIResponse is the single external response schema for every submission
// endpoint. Which optional fields are present depends on the outcome and the
// submission kind; the error codes are the closed taxonomy and nothing else.
type APIResponse struct {
	OK        bool                  `json:"ok"`
	Error     pipeline.Code         `json:"error,omitempty"`
	Fields    validate.FieldErrors  `json:"fields,omitempty"`
	RetryInMS int64                 `json:"retry_in_ms,omitempty"`
	ID        string                `json:"id,omitempty"`
	Message   string                `json:"message,omitempty"`
	Session   *models.Session       `json:"session,omitempty"`
	Reply     string                `json:"reply,omitempty"`
	Blocks    json.RawMessage       `json:"blocks,omitempty"`
}

// shapeOutcome maps an internal pipeline outcome onto the external schema
// and its HTTP status.
func shapeOutcome(outcome pipeline.Outcome) (int, APIResponse) {
	if !outcome.OK {
		resp := APIResponse{Error: outcome.Code, Fields: outcome.Fields}
		switch outcome.Code {
		case pipeline.CodeInvalidInput, pipeline.CodePotentialSpam:
			return http.StatusBadRequest, resp
		case pipeline.CodeRateLimited:
			resp.RetryInMS = outcome.RetryIn.Milliseconds()
			return http.StatusTooManyRequests, resp
		case pipeline.CodeUpstreamUnavailable:
			return http.StatusBadGateway, resp
		default:
			return http.StatusInternalServerError, resp
		}
	}

	result := outcome.Result
	resp := APIResponse{
		OK:      true,
		ID:      result.ID,
		Message: result.Message,
		Reply:   result.Reply,
		Blocks:  result.Blocks,
	}
	// Upstream-issued ids pass through verbatim; an id is only minted here
	// when the upstream acknowledged without one.
	if resp.ID == "" && result.SessionID == "" && result.Reply == "" {
		resp.ID = uuid.New().String()
	}
	if resp.Message == "" && result.Reply == "" {
		resp.Message = "Submission received"
	}
	if result.SessionID != "" {
		resp.Session = &models.Session{ID: result.SessionID}
	}
	return http.StatusOK, resp
}
