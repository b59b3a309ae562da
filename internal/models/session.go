package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Session references a chat session issued by the automation backend. The
// gateway never mints session ids; it relays an intake and surfaces the
// upstream-issued id verbatim.
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	LastActivity time.Time `json:"last_activity,omitempty"`
}

// Message is a single chat message. Append-only per session, insertion order.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Recommendation is one structured recommendation inside AgentBlocks.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Effort      string `json:"effort,omitempty"`
}

// Idea is one automation idea inside AgentBlocks.
type Idea struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// DayPlan is one day of the 7-day plan inside AgentBlocks.
type DayPlan struct {
	Day   int    `json:"day"`
	Focus string `json:"focus"`
	Tasks []string `json:"tasks,omitempty"`
}

// AgentBlocks is the structured assistant output the automation backend must
// return for a chat reply to be well-formed. The gateway passes it through
// unmodified; it only checks that the required top-level keys are present.
type AgentBlocks struct {
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
	Ideas           []Idea           `json:"ideas"`
	Plan7D          []DayPlan        `json:"plan_7d"`
	Tips            []string         `json:"tips,omitempty"`
}

// requiredBlockKeys are the top-level keys every AgentBlocks object must carry.
var requiredBlockKeys = []string{"summary", "recommendations", "ideas", "plan_7d"}

// ValidateBlocks checks that raw is a JSON object containing every required
// AgentBlocks key. A missing key means the upstream response is malformed and
// must not be forwarded to the client.
func ValidateBlocks(raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("blocks missing")
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("blocks not an object: %w", err)
	}
	for _, k := range requiredBlockKeys {
		if _, ok := keys[k]; !ok {
			return fmt.Errorf("blocks missing required key %q", k)
		}
	}
	return nil
}
