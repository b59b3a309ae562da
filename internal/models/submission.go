package models

import "time"

// SubmissionKind identifies which form or message variant a request carries.
type SubmissionKind string

const (
	KindContact     SubmissionKind = "contact"
	KindLead        SubmissionKind = "lead"
	KindIntake      SubmissionKind = "intake"
	KindChatMessage SubmissionKind = "chat_message"
)

// Valid reports whether the kind is one of the known submission kinds.
func (k SubmissionKind) Valid() bool {
	switch k {
	case KindContact, KindLead, KindIntake, KindChatMessage:
		return true
	}
	return false
}

// ServiceTypes is the closed enum accepted for the lead form's service_type field.
var ServiceTypes = []string{"agent", "automation", "chatbot", "n8n", "course", "other"}

// SubmissionRequest is the raw, untrusted request body as it arrives from the
// browser. Fields are pointers/zero-values so validation can distinguish
// "absent" from "empty". Validation never mutates it.
type SubmissionRequest struct {
	Name         string   `json:"name,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Message      string   `json:"message,omitempty"`
	ServiceType  string   `json:"service_type,omitempty"`
	Budget       string   `json:"budget,omitempty"`
	BusinessType string   `json:"business_type,omitempty"`
	Channels     []string `json:"channels,omitempty"`
	Goal         string   `json:"goal,omitempty"`
	SessionID    string   `json:"session_id,omitempty"`
	Consent      *bool    `json:"consent,omitempty"`

	// Honeypot must arrive empty; any value marks the request as spam.
	Honeypot string `json:"website,omitempty"`
}

// ValidatedPayload is the normalized result of validating a SubmissionRequest.
// Required fields for its kind are guaranteed present and trimmed; email is
// lower-cased. It lives only for the request that produced it.
type ValidatedPayload struct {
	Kind         SubmissionKind `json:"-"`
	Name         string         `json:"name,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Message      string         `json:"message,omitempty"`
	ServiceType  string         `json:"service_type,omitempty"`
	Budget       string         `json:"budget,omitempty"`
	BusinessType string         `json:"business_type,omitempty"`
	Channels     []string       `json:"channels,omitempty"`
	Goal         string         `json:"goal,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
	Consent      bool           `json:"consent,omitempty"`
}

// UTMParams carries campaign attribution parameters as forwarded by the client.
type UTMParams struct {
	Source   string `json:"source,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// IsZero reports whether no UTM parameter was supplied.
func (u UTMParams) IsZero() bool {
	return u == UTMParams{}
}

// ProvenanceMeta is request metadata attached alongside (never inside) the
// validated payload before relay.
type ProvenanceMeta struct {
	IP        string     `json:"ip"`
	UserAgent string     `json:"user_agent"`
	Timestamp time.Time  `json:"timestamp"`
	Page      string     `json:"page,omitempty"`
	UTM       *UTMParams `json:"utm,omitempty"`
}

// WebhookEnvelope is the wire shape sent to the automation backend.
// Type always matches the variant tag of Data.
type WebhookEnvelope struct {
	Type SubmissionKind   `json:"type"`
	Data ValidatedPayload `json:"data"`
	Meta ProvenanceMeta   `json:"meta"`
}
