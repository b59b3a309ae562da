// Package validate checks raw submissions against the field schema for their
// kind. Validation is pure: it never mutates the input and has no side
// effects, so the abuse guard can run independently of its result.
package validate

import (
	"regexp"
	"strings"

	"github.com/agentarchitect/leadgate/internal/models"
)

// FieldErrors maps offending field names to human-readable messages so the
// client can highlight individual inputs.
type FieldErrors map[string]string

// emailPattern is a conservative shape check, not a full RFC 5322 parser.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Submission validates raw for the given kind. On success it returns the
// normalized payload (trimmed fields, lower-cased email) and a nil error map.
func Submission(kind models.SubmissionKind, raw *models.SubmissionRequest) (*models.ValidatedPayload, FieldErrors) {
	errs := FieldErrors{}

	switch kind {
	case models.KindContact:
		validateContact(raw, errs)
	case models.KindLead:
		validateLead(raw, errs)
	case models.KindIntake:
		validateIntake(raw, errs)
	case models.KindChatMessage:
		validateChatMessage(raw, errs)
	default:
		errs["kind"] = "unknown submission kind"
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return normalize(kind, raw), nil
}

func validateContact(raw *models.SubmissionRequest, errs FieldErrors) {
	requireName(raw, errs)
	requireEmail(raw, errs)
	if strings.TrimSpace(raw.Message) == "" {
		errs["message"] = "message is required"
	}
	requireConsent(raw, errs)
}

func validateLead(raw *models.SubmissionRequest, errs FieldErrors) {
	requireName(raw, errs)
	requireEmail(raw, errs)
	st := strings.TrimSpace(raw.ServiceType)
	if st == "" {
		errs["service_type"] = "service_type is required"
	} else if !validServiceType(st) {
		errs["service_type"] = "service_type must be one of: " + strings.Join(models.ServiceTypes, ", ")
	}
	requireConsent(raw, errs)
}

func validateIntake(raw *models.SubmissionRequest, errs FieldErrors) {
	requireName(raw, errs)
	requireEmail(raw, errs)
	if strings.TrimSpace(raw.BusinessType) == "" {
		errs["business_type"] = "business_type is required"
	}
	if strings.TrimSpace(raw.Goal) == "" {
		errs["goal"] = "goal is required"
	}
}

func validateChatMessage(raw *models.SubmissionRequest, errs FieldErrors) {
	if strings.TrimSpace(raw.SessionID) == "" {
		errs["session_id"] = "session_id is required"
	}
	if strings.TrimSpace(raw.Message) == "" {
		errs["message"] = "message is required"
	}
}

func requireName(raw *models.SubmissionRequest, errs FieldErrors) {
	if strings.TrimSpace(raw.Name) == "" {
		errs["name"] = "name is required"
	}
}

func requireEmail(raw *models.SubmissionRequest, errs FieldErrors) {
	email := strings.TrimSpace(raw.Email)
	if email == "" {
		errs["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "email is not valid"
	}
}

// Consent must be an explicit true for human-originated forms. Absent or
// false is a validation failure, never silently dropped.
func requireConsent(raw *models.SubmissionRequest, errs FieldErrors) {
	if raw.Consent == nil || !*raw.Consent {
		errs["consent"] = "consent is required"
	}
}

func validServiceType(st string) bool {
	for _, v := range models.ServiceTypes {
		if st == v {
			return true
		}
	}
	return false
}

func normalize(kind models.SubmissionKind, raw *models.SubmissionRequest) *models.ValidatedPayload {
	p := &models.ValidatedPayload{
		Kind:         kind,
		Name:         strings.TrimSpace(raw.Name),
		Email:        strings.ToLower(strings.TrimSpace(raw.Email)),
		Phone:        strings.TrimSpace(raw.Phone),
		Message:      strings.TrimSpace(raw.Message),
		ServiceType:  strings.TrimSpace(raw.ServiceType),
		Budget:       strings.TrimSpace(raw.Budget),
		BusinessType: strings.TrimSpace(raw.BusinessType),
		Goal:         strings.TrimSpace(raw.Goal),
		SessionID:    strings.TrimSpace(raw.SessionID),
	}
	if raw.Consent != nil {
		p.Consent = *raw.Consent
	}
	if len(raw.Channels) > 0 {
		p.Channels = make([]string, 0, len(raw.Channels))
		for _, c := range raw.Channels {
			if c = strings.TrimSpace(c); c != "" {
				p.Channels = append(p.Channels, c)
			}
		}
	}
	return p
}
