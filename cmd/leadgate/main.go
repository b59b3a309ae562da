package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentarchitect/leadgate/internal/abuse"
	"github.com/agentarchitect/leadgate/internal/analytics"
	"github.com/agentarchitect/leadgate/internal/config"
	"github.com/agentarchitect/leadgate/internal/handlers"
	"github.com/agentarchitect/leadgate/internal/logging"
	"github.com/agentarchitect/leadgate/internal/middleware"
	"github.com/agentarchitect/leadgate/internal/pipeline"
	"github.com/agentarchitect/leadgate/internal/provenance"
	"github.com/agentarchitect/leadgate/internal/relay"
	"github.com/agentarchitect/leadgate/internal/server"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(slog.String("service", "leadgate"))
	logging.SetDefault(logger)

	slog.Info("Starting lead gateway",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}
	slog.Info("Upstream webhooks configured",
		slog.String("forms_url", cfg.Upstream.FormsURL),
		slog.String("intake_url", cfg.Upstream.IntakeURL),
		slog.String("chat_url", cfg.Upstream.ChatURL),
	)

	// Initialize rate limiter
	var rateLimiter abuse.RateLimiter
	switch {
	case !cfg.Abuse.RateLimitEnabled:
		rateLimiter = abuse.NoOpRateLimiter{}
		log.Println("Rate limiting disabled in configuration")
	case cfg.Abuse.RedisEnabled:
		log.Printf("Initializing Redis rate limiter: %s", cfg.Abuse.RedisURL)
		limiter, err := abuse.NewRedisRateLimiter(
			cfg.Abuse.RedisURL,
			cfg.Abuse.RateLimitRequests,
			cfg.Abuse.RateLimitWindow,
		)
		if err != nil {
			log.Printf("WARNING: Failed to initialize Redis rate limiter: %v", err)
			log.Println("Falling back to in-memory rate limiting")
			rateLimiter = abuse.NewMemoryRateLimiter(cfg.Abuse.RateLimitRequests, cfg.Abuse.RateLimitWindow, nil)
		} else {
			rateLimiter = limiter
			log.Printf("Rate limiting enabled: %d requests per %s (redis)", cfg.Abuse.RateLimitRequests, cfg.Abuse.RateLimitWindow)
		}
	default:
		rateLimiter = abuse.NewMemoryRateLimiter(cfg.Abuse.RateLimitRequests, cfg.Abuse.RateLimitWindow, nil)
		log.Printf("Rate limiting enabled: %d requests per %s (in-memory)", cfg.Abuse.RateLimitRequests, cfg.Abuse.RateLimitWindow)
	}
	defer rateLimiter.Close()

	// Initialize the submission pipeline
	relayClient := relay.New(relay.Config{
		FormsURL:  cfg.Upstream.FormsURL,
		IntakeURL: cfg.Upstream.IntakeURL,
		ChatURL:   cfg.Upstream.ChatURL,
		Timeout:   cfg.Upstream.Timeout,
	})
	recorder := analytics.NewLogRecorder(logger)
	pipe := pipeline.New(rateLimiter, provenance.New(nil), relayClient, recorder, logger)

	// Initialize HTTP handlers
	submissionHandler := handlers.NewSubmissionHandler(pipe, cfg.Server.MaxBodyBytes)
	passthroughHandler := handlers.NewPassthroughHandler(cfg.Upstream.PassthroughURL, cfg.Upstream.Timeout, logger)
	healthHandler := handlers.NewHealthHandler(nil)

	router := server.NewRouter(submissionHandler, passthroughHandler, healthHandler, middleware.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "X-Origin-Page", "X-UTM-Source", "X-UTM-Medium", "X-UTM-Campaign", "X-UTM-Term", "X-UTM-Content"},
		MaxAge:         cfg.CORS.MaxAge,
	})

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Lead gateway listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
