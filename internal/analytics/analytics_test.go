package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/agentarchitect/leadgate/internal/logging"
	"github.com/agentarchitect/leadgate/internal/models"
)

func TestLogRecorderOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := &logging.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	rec := NewLogRecorder(logger)

	rec.OutcomeDetermined(context.Background(), models.KindLead, "success", 42*time.Millisecond)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["kind"] != "lead" {
		t.Errorf("kind = %v, want lead", entry["kind"])
	}
	if entry["outcome"] != "success" {
		t.Errorf("outcome = %v, want success", entry["outcome"])
	}
	if entry["duration_ms"] != float64(42) {
		t.Errorf("duration_ms = %v, want 42", entry["duration_ms"])
	}
}

func TestNewLogRecorderNilLogger(t *testing.T) {
	rec := NewLogRecorder(nil)
	if rec.Logger == nil {
		t.Fatal("nil logger not defaulted")
	}
	rec.RequestReceived(context.Background(), models.KindContact)
}
