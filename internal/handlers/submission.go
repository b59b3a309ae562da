package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentarchitect/leadgate/internal/httputil"
	"github.com/agentarchitect/leadgate/internal/models"
	"github.com/agentarchitect/leadgate/internal/pipeline"
	"github.com/agentarchitect/leadgate/internal/provenance"
	"github.com/agentarchitect/leadgate/internal/validate"
)

// SubmissionHandler serves the form and chat submission endpoints.
type SubmissionHandler struct {
	pipe         *pipeline.Pipeline
	maxBodyBytes int64
}

// NewSubmissionHandler constructs a SubmissionHandler. maxBodyBytes bounds
// the accepted request body size; zero means 64 KiB.
func NewSubmissionHandler(pipe *pipeline.Pipeline, maxBodyBytes int64) *SubmissionHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 64 << 10
	}
	return &SubmissionHandler{pipe: pipe, maxBodyBytes: maxBodyBytes}
}

// HandleContact serves POST /api/v1/submit/contact.
func (h *SubmissionHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, models.KindContact)
}

// HandleLead serves POST /api/v1/submit/lead.
func (h *SubmissionHandler) HandleLead(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, models.KindLead)
}

// HandleIntake serves POST /api/v1/intake.
func (h *SubmissionHandler) HandleIntake(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, models.KindIntake)
}

// HandleChatMessage serves POST /api/v1/chat/message.
func (h *SubmissionHandler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, models.KindChatMessage)
}

func (h *SubmissionHandler) handle(w http.ResponseWriter, r *http.Request, kind models.SubmissionKind) {
	if r.Method != http.MethodPost {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, APIResponse{
			Error: pipeline.CodeInvalidInput,
		})
		return
	}

	var raw models.SubmissionRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, APIResponse{
			Error:  pipeline.CodeInvalidInput,
			Fields: validate.FieldErrors{"body": "request body is not valid JSON"},
		})
		return
	}

	reqCtx := provenance.ContextFromRequest(r)
	outcome := h.pipe.Process(r.Context(), kind, &raw, reqCtx)

	status, resp := shapeOutcome(outcome)
	httputil.WriteJSON(w, status, resp)
}
