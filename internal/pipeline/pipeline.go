// Package pipeline runs an inbound submission through the full control flow:
// spam check, validation, rate limiting, provenance enrichment, relay, and
// finally maps every result into the closed outcome taxonomy. No fault
// escapes to the HTTP layer unmapped.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/agentarchitect/leadgate/internal/abuse"
	"github.com/agentarchitect/leadgate/internal/analytics"
	"github.com/agentarchitect/leadgate/internal/logging"
	"github.com/agentarchitect/leadgate/internal/metrics"
	"github.com/agentarchitect/leadgate/internal/models"
	"github.com/agentarchitect/leadgate/internal/provenance"
	"github.com/agentarchitect/leadgate/internal/relay"
	"github.com/agentarchitect/leadgate/internal/validate"
)

// Relayer is the upstream boundary. Satisfied by *relay.Client.
type Relayer interface {
	Relay(ctx context.Context, envelope models.WebhookEnvelope) (*relay.Outcome, error)
}

// Pipeline wires the submission components together. Everything it holds is
// either stateless or internally synchronized; one Pipeline serves all
// requests concurrently.
type Pipeline struct {
	limiter   abuse.RateLimiter
	enricher  *provenance.Enricher
	relayer   Relayer
	recorder  analytics.Recorder
	logger    *logging.Logger
}

// New constructs a Pipeline. A nil recorder disables analytics.
func New(limiter abuse.RateLimiter, enricher *provenance.Enricher, relayer Relayer, recorder analytics.Recorder, logger *logging.Logger) *Pipeline {
	if recorder == nil {
		recorder = analytics.NopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		limiter:  limiter,
		enricher: enricher,
		relayer:  relayer,
		recorder: recorder,
		logger:   logger,
	}
}

// Process runs one submission through the pipeline and returns its outcome.
//
// The spam check runs first: it is the cheapest signal, it applies even to
// otherwise-invalid payloads, and a spam rejection must not consume a
// rate-limit slot. Validation and rate-limit failures resolve locally and
// never reach the relay.
func (p *Pipeline) Process(ctx context.Context, kind models.SubmissionKind, raw *models.SubmissionRequest, reqCtx provenance.RequestContext) Outcome {
	p.recorder.RequestReceived(ctx, kind)
	start := time.Now()
	outcome := p.process(ctx, kind, raw, reqCtx)
	p.recorder.OutcomeDetermined(ctx, kind, outcome.Label(), time.Since(start))
	return outcome
}

func (p *Pipeline) process(ctx context.Context, kind models.SubmissionKind, raw *models.SubmissionRequest, reqCtx provenance.RequestContext) Outcome {
	if spam := abuse.CheckSpam(raw.Honeypot); spam.IsSpam {
		metrics.SpamRejections.WithLabelValues(string(kind)).Inc()
		p.logger.WarnContext(ctx, "submission flagged as spam",
			"kind", string(kind),
			"reason", spam.Reason,
			"ip", reqCtx.IP,
		)
		return potentialSpam()
	}

	payload, fieldErrs := validate.Submission(kind, raw)
	if fieldErrs != nil {
		return invalidInput(fieldErrs)
	}

	limit, err := p.limiter.Allow(ctx, reqCtx.IP, kind)
	if err != nil {
		// A broken limiter store is an internal fault, not the client's.
		p.logger.ErrorContext(ctx, "rate limiter failure", "error", err.Error())
		return serverError()
	}
	if !limit.Allowed {
		return rateLimited(limit.RetryIn)
	}

	envelope := p.enricher.Enrich(payload, reqCtx)

	relayOutcome, err := p.relayer.Relay(ctx, envelope)
	if err != nil {
		if errors.Is(err, relay.ErrUpstreamUnavailable) || errors.Is(err, relay.ErrMalformedReply) {
			p.logger.WarnContext(ctx, "relay failed", "kind", string(kind), "error", err.Error())
			return upstreamUnavailable()
		}
		p.logger.ErrorContext(ctx, "relay failed unexpectedly", "kind", string(kind), "error", err.Error())
		return serverError()
	}

	if !relayOutcome.OK() {
		// Keep the upstream's answer in the logs for diagnosis; the client
		// only ever sees the normalized code.
		p.logger.WarnContext(ctx, "upstream rejected submission",
			"kind", string(kind),
			"upstream_status", relayOutcome.Status,
			"upstream_body", string(relayOutcome.Body),
		)
		return upstreamUnavailable()
	}

	return success(relayOutcome.Result)
}
