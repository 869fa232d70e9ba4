// Package server wires the HTTP router and runs it until the context ends.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/pluscode/internal/core/config"
	"github.com/mohammed-shakir/pluscode/internal/core/health"
	middleware "github.com/mohammed-shakir/pluscode/internal/core/middleware"
	"github.com/mohammed-shakir/pluscode/internal/core/router"
)

type Options struct {
	// Ready gates /readyz. Nil means always ready.
	Ready health.ReadinessReporter
	// Metrics is mounted at MetricsPath on the main listener when set.
	Metrics     http.Handler
	MetricsPath string
}

// NewHandler builds the full route tree.
func NewHandler(logger *slog.Logger, api *router.API, opts Options) http.Handler {
	if opts.Ready == nil {
		opts.Ready = health.AlwaysReady{}
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(opts.Ready))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, opts.MetricsPath, opts.Metrics)
	}
	api.Mount(r)
	return r
}

// Run serves h on cfg.Addr and shuts down gracefully when ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, h http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "err", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
