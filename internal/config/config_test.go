package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Abuse.RateLimitRequests != 10 {
		t.Errorf("abuse.rate_limit_requests = %d, want 10", cfg.Abuse.RateLimitRequests)
	}
	if cfg.Abuse.RateLimitWindow != 10*time.Minute {
		t.Errorf("abuse.rate_limit_window = %v, want 10m", cfg.Abuse.RateLimitWindow)
	}
	if !cfg.Abuse.RateLimitEnabled {
		t.Error("abuse.rate_limit_enabled = false, want true by default")
	}
	if cfg.Upstream.Timeout != 10*time.Second {
		t.Errorf("upstream.timeout = %v, want 10s", cfg.Upstream.Timeout)
	}
	if cfg.CORS.MaxAge != 86400 {
		t.Errorf("cors.max_age = %d, want 86400", cfg.CORS.MaxAge)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging.format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9205
upstream:
  forms_url: https://automation.example/forms
  intake_url: https://automation.example/intake
  chat_url: https://automation.example/chat
  timeout: 3s
abuse:
  rate_limit_requests: 5
  rate_limit_window: 1m
logging:
  level: debug
  format: text
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9205 {
		t.Errorf("server.port = %d, want 9205", cfg.Server.Port)
	}
	if cfg.Upstream.FormsURL != "https://automation.example/forms" {
		t.Errorf("upstream.forms_url = %q", cfg.Upstream.FormsURL)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("upstream.timeout = %v, want 3s", cfg.Upstream.Timeout)
	}
	if cfg.Abuse.RateLimitRequests != 5 {
		t.Errorf("abuse.rate_limit_requests = %d, want 5", cfg.Abuse.RateLimitRequests)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("server.write_timeout = %v, want default 30s", cfg.Server.WriteTimeout)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing explicit file should return error")
	}
}
