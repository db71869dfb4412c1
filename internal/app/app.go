// Package app wires configuration, logging, the pipeline store and the
// HTTP transport into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paylens/internal/config"
	"paylens/internal/currency"
	apierrors "paylens/internal/errors"
	"paylens/internal/infrastructure"
	"paylens/internal/middleware"
	"paylens/internal/pipeline"
	handlers "paylens/internal/transport/http"
)

// Version is set at build time.
var Version = "dev"

// Application is the main application container.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router *chi.Mux
	Server *http.Server
	Store  *pipeline.Store
	Rates  *currency.Client
}

// New creates an application with all dependencies wired.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	rates := currency.NewClient(cfg.Currency.Endpoint, cfg.Currency.Timeout, logger)
	store := pipeline.NewStore(rates, logger)

	app := &Application{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Rates:  rates,
	}
	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	if a.Config.Security.RateLimit.Enabled {
		r.Use(middleware.RateLimiter(a.Config.Security.RateLimit.RPS, a.Config.Security.RateLimit.Burst))
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	pipelineHandler := handlers.NewPipelineHandler(
		a.Store, a.Logger, errorHandler,
		a.Config.Upload.MaxFileSize, a.Config.Upload.MaxFiles,
	)

	r.Mount("/api/pipeline", pipelineHandler.Routes())
	r.Mount("/healthz", handlers.NewHealthHandler(Version).Routes())
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.Logger.Info("server stopped")
	return nil
}
