// Package analytics exposes the pipeline's observation points without tying
// the gateway to any analytics provider.
package analytics

import (
	"context"
	"time"

	"github.com/agentarchitect/leadgate/internal/logging"
	"github.com/agentarchitect/leadgate/internal/metrics"
	"github.com/agentarchitect/leadgate/internal/models"
)

// Recorder receives pipeline observation events. Implementations must not
// block: the pipeline calls these inline.
type Recorder interface {
	RequestReceived(ctx context.Context, kind models.SubmissionKind)
	OutcomeDetermined(ctx context.Context, kind models.SubmissionKind, outcome string, elapsed time.Duration)
}

// LogRecorder records observations as structured logs and Prometheus
// counters. This is the default collaborator wiring.
type LogRecorder struct {
	Logger *logging.Logger
}

// NewLogRecorder constructs a LogRecorder. A nil logger uses the default.
func NewLogRecorder(logger *logging.Logger) *LogRecorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogRecorder{Logger: logger}
}

func (r *LogRecorder) RequestReceived(ctx context.Context, kind models.SubmissionKind) {
	r.Logger.DebugContext(ctx, "submission received", "kind", string(kind))
}

func (r *LogRecorder) OutcomeDetermined(ctx context.Context, kind models.SubmissionKind, outcome string, elapsed time.Duration) {
	metrics.SubmissionsTotal.WithLabelValues(string(kind), outcome).Inc()
	r.Logger.InfoContext(ctx, "submission outcome",
		"kind", string(kind),
		"outcome", outcome,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// NopRecorder discards all observations.
type NopRecorder struct{}

func (NopRecorder) RequestReceived(ctx context.Context, kind models.SubmissionKind) {}

func (NopRecorder) OutcomeDetermined(ctx context.Context, kind models.SubmissionKind, outcome string, elapsed time.Duration) {
}
