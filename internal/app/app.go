// Package app assembles the aggregation stack from configuration.
package app

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vmunix/voseflix/internal/config"
	"github.com/vmunix/voseflix/internal/events"
	"github.com/vmunix/voseflix/internal/fetch"
	"github.com/vmunix/voseflix/internal/httpx"
	"github.com/vmunix/voseflix/internal/omdb"
	"github.com/vmunix/voseflix/internal/pipeline"
	"github.com/vmunix/voseflix/internal/scrape"
	"github.com/vmunix/voseflix/internal/store"
	"github.com/vmunix/voseflix/internal/tmdb"
)

// App holds the wired components. Close releases the database.
type App struct {
	DB       *sql.DB
	Caches   store.Caches
	EventLog *events.EventLog
	Site     scrape.Site
	Fetcher  *fetch.Fetcher
	Pipeline *pipeline.Pipeline

	// Ratings and Trailers report which enrichers are configured.
	Ratings  bool
	Trailers bool
}

// New opens the database and builds the pipeline described by cfg.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	db, err := store.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// === Stores ===
	caches := store.NewSQLiteCaches(db)

	// === Origin ===
	fetcher := fetch.New(caches.HTML,
		fetch.WithRelay(cfg.Relay()),
		fetch.WithHTTPClient(httpx.NewClient(cfg.Origin.Timeout)),
		fetch.WithCacheTTL(cfg.Origin.CacheTTL),
		fetch.WithRateLimit(cfg.Origin.RateLimit, cfg.Origin.Burst),
		fetch.WithRetry(httpx.Retry{Retries: cfg.Origin.Retries}),
		fetch.WithLogger(logger.With("component", "fetch")),
	)
	site := scrape.NewSite(cfg.Origin.BaseURL, loc)

	opts := []pipeline.Option{
		pipeline.WithBatchSize(cfg.Pipeline.BatchSize),
		pipeline.WithMoviesTTL(cfg.Pipeline.MoviesTTL),
		pipeline.WithBookingResolution(cfg.Origin.ResolveBookingURLs),
		pipeline.WithLogger(logger),
	}

	// === Enrichers (optional - skipped without an API key) ===
	a := &App{DB: db, Caches: caches, EventLog: events.NewEventLog(db), Site: site, Fetcher: fetcher}
	if cfg.OMDb.APIKey != "" {
		omdbOpts := []omdb.Option{omdb.WithLogger(logger)}
		if cfg.OMDb.BaseURL != "" {
			omdbOpts = append(omdbOpts, omdb.WithBaseURL(cfg.OMDb.BaseURL))
		}
		if cfg.OMDb.Retries != nil {
			omdbOpts = append(omdbOpts, omdb.WithRetry(httpx.Retry{Retries: *cfg.OMDb.Retries}))
		}
		opts = append(opts, pipeline.WithRatings(omdb.NewClient(cfg.OMDb.APIKey, caches.Ratings, omdbOpts...)))
		a.Ratings = true
	}
	if cfg.TMDB.APIKey != "" {
		tmdbOpts := []tmdb.Option{tmdb.WithLogger(logger), tmdb.WithCacheTTL(cfg.TMDB.CacheTTL)}
		if cfg.TMDB.BaseURL != "" {
			tmdbOpts = append(tmdbOpts, tmdb.WithBaseURL(cfg.TMDB.BaseURL))
		}
		opts = append(opts, pipeline.WithTrailers(tmdb.NewClient(cfg.TMDB.APIKey, tmdbOpts...)))
		a.Trailers = true
	}

	a.Pipeline = pipeline.New(fetcher, scrape.NewParser(site), caches, opts...)
	return a, nil
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// ParseLogLevel maps a config level name to a slog level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a text logger writing to stdout and, when configured,
// to a rotating log file. The returned closer flushes the file.
func NewLogger(cfg config.LogConfig, stdout io.Writer) (*slog.Logger, io.Closer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	out, closer := stdout, io.Closer(nopCloser{})
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out = io.MultiWriter(stdout, file)
		closer = file
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: ParseLogLevel(cfg.Level),
	})), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
