package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	v1 "github.com/vmunix/voseflix/internal/api/v1"
	"github.com/vmunix/voseflix/internal/app"
	"github.com/vmunix/voseflix/internal/config"
	"github.com/vmunix/voseflix/internal/events"
	"github.com/vmunix/voseflix/internal/server"
)

const (
	shutdownTimeout = 30 * time.Second
	eventRetention  = 30 * 24 * time.Hour
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Flush keeps event streams working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(wrapped, r)
		if wrapped.status == 0 {
			wrapped.status = http.StatusOK
		}
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	if configPath == "" {
		p, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = p
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger, logFile := app.NewLogger(cfg.Log, os.Stdout)
	defer func() { _ = logFile.Close() }()
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "detail", w)
	}

	// === Stores, origin and pipeline ===
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if n, err := a.EventLog.Prune(ctx, eventRetention); err != nil {
		logger.Warn("event prune failed", "error", err)
	} else if n > 0 {
		logger.Info("pruned old events", "count", n)
	}

	// === Events and runner ===
	bus := events.NewBus(a.EventLog, logger)
	defer func() { _ = bus.Close() }()

	runner := server.NewRunner(a.Pipeline, bus, server.Config{
		RefreshInterval: cfg.Server.RefreshInterval,
		LoadOnStart:     cfg.Server.ShouldLoadOnStart(),
	}, logger)

	// === HTTP Setup ===
	api, err := v1.NewWithDeps(v1.ServerDeps{
		Runner:   runner,
		Bus:      bus,
		EventLog: a.EventLog,
		Site:     a.Site,
		Version:  version,
	})
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           logRequests(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
		// Streams end when the daemon stops.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	logger.Info("server starting",
		"addr", cfg.Addr(),
		"database", cfg.Database.Path,
		"origin", cfg.Origin.BaseURL,
		"relay", cfg.Relay(),
		"omdb", a.Ratings,
		"tmdb", a.Trailers,
		"refresh_interval", cfg.Server.RefreshInterval,
		"log_level", cfg.Log.Level,
	)

	g.Go(func() error {
		return runner.Run(gctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		// Graceful HTTP shutdown with 30s timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
