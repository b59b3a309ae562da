package pipeline

import (
	"time"

	"github.com/agentarchitect/leadgate/internal/relay"
	"github.com/agentarchitect/leadgate/internal/validate"
)

// Code is a machine-readable error code. The set below is the entire
// externally visible error taxonomy; no other code is ever emitted.
type Code string

const (
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodePotentialSpam       Code = "POTENTIAL_SPAM"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeServerError         Code = "SERVER_ERROR"
)

// Outcome is the pipeline's internal verdict on one submission, before it is
// shaped into the external response schema.
type Outcome struct {
	OK      bool
	Code    Code
	Fields  validate.FieldErrors
	RetryIn time.Duration
	Result  *relay.UpstreamResult
}

// Label returns a short label for metrics and analytics.
func (o Outcome) Label() string {
	if o.OK {
		return "success"
	}
	return string(o.Code)
}

func invalidInput(fields validate.FieldErrors) Outcome {
	return Outcome{Code: CodeInvalidInput, Fields: fields}
}

func potentialSpam() Outcome {
	return Outcome{Code: CodePotentialSpam}
}

func rateLimited(retryIn time.Duration) Outcome {
	return Outcome{Code: CodeRateLimited, RetryIn: retryIn}
}

func upstreamUnavailable() Outcome {
	return Outcome{Code: CodeUpstreamUnavailable}
}

func serverError() Outcome {
	return Outcome{Code: CodeServerError}
}

func success(result *relay.UpstreamResult) Outcome {
	return Outcome{OK: true, Result: result}
}
