// Package abuse holds the pre-relay defenses: the honeypot spam check and the
// per-identity rate limiter. Both run before any upstream relay.
package abuse

import "strings"

// SpamReasonHoneypot is the reason reported when the honeypot field was filled.
const SpamReasonHoneypot = "honeypot_filled"

// SpamCheckInfo is the result of the spam heuristic.
type SpamCheckInfo struct {
	IsSpam bool
	Reason string
}

// CheckSpam inspects the honeypot field value. Legitimate browsers never
// populate it; any non-empty value flags the request as spam. This runs
// regardless of validation outcome.
func CheckSpam(honeypot string) SpamCheckInfo {
	if strings.TrimSpace(honeypot) != "" {
		return SpamCheckInfo{IsSpam: true, Reason: SpamReasonHoneypot}
	}
	return SpamCheckInfo{}
}
