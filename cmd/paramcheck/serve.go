package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/artpar/paramcheck/internal/core/validation"
	"github.com/artpar/paramcheck/internal/shell/api"
	"github.com/artpar/paramcheck/internal/shell/api/openapi"
	"github.com/artpar/paramcheck/internal/shell/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the validation HTTP API",
		Long: `Run the validation HTTP API until interrupted.

Endpoints:
  POST /api/v1/parameters/validate      validate a parameter set
  POST /api/v1/parameters/validate-one  validate a single parameter
  GET  /health                          liveness check
  GET  /metrics                         Prometheus metrics (metrics.enabled)
  GET  /openapi.json                    OpenAPI 3.0 document`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			logger := SetupLogger(cfg, opts.stdout)
			logger.Info("starting paramcheck",
				"version", Version,
				"config", opts.configPath,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return NewServer(cfg, logger).Start(ctx)
		},
	}
}

// =============================================================================
// Server
// =============================================================================

// Server represents the validation API server.
type Server struct {
	config     *Config
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new server with the given config.
func NewServer(cfg *Config, logger *slog.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(cfg.Metrics.Collector(), registry)

	handler := api.NewHandler(validation.DefaultEngine(), collector, logger,
		openapi.WithVersion(Version),
		openapi.WithServer(cfg.Server.URL()),
	)

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      handler.Routes(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger: logger,
	}
}

// Start starts the server and blocks until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		s.logger.Info("starting HTTP server",
			"address", s.config.Server.Address(),
			"metrics", s.config.Metrics.Enabled,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errCh:
		return &ServerError{
			Op:       "Start",
			Err:      err,
			ExitCode: ExitHTTPServerError,
		}
	case <-ctx.Done():
		s.logger.Info("received shutdown signal")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("initiating graceful shutdown")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return &ServerError{
			Op:       "Shutdown",
			Err:      err,
			ExitCode: ExitHTTPServerError,
		}
	}

	s.logger.Info("shutdown complete")
	return nil
}
