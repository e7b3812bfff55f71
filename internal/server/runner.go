// Package server owns the daemon's live state: the latest movie list, the
// status of the current load, and scheduled refreshes.
package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/voseflix/internal/events"
	"github.com/vmunix/voseflix/internal/pipeline"
	"github.com/vmunix/voseflix/pkg/movie"
)

// Loader runs the movie pipeline.
type Loader interface {
	Load(ctx context.Context, bypass bool, onProgress pipeline.ProgressFunc) ([]movie.Movie, error)
}

// Refresh triggers.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerAPI      = "api"
)

// Config for the runner.
type Config struct {
	// RefreshInterval schedules a cache-respecting reload; zero disables it.
	RefreshInterval time.Duration
	// LoadOnStart starts a load as soon as Run is called.
	LoadOnStart bool
}

// Status describes the current or most recent load.
type Status struct {
	Loading     bool               `json:"loading"`
	RunID       string             `json:"run_id,omitempty"`
	Done        int                `json:"done"`
	Total       int                `json:"total"`
	Movies      int                `json:"movies"`
	Failed      []pipeline.Failure `json:"failed,omitempty"`
	LastError   string             `json:"last_error,omitempty"`
	StartedAt   time.Time          `json:"started_at,omitzero"`
	CompletedAt time.Time          `json:"completed_at,omitzero"`
}

// Snapshot is a consistent view of the runner's state.
type Snapshot struct {
	Movies []movie.Movie `json:"movies"`
	Status Status        `json:"status"`
}

// Runner serializes loads: a new Refresh cancels the one in flight, and
// only the latest run may change the published state.
type Runner struct {
	loader Loader
	bus    *events.Bus // may be nil
	config Config
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	base     context.Context
	complete []movie.Movie // last successful list
	partial  []movie.Movie // progress of the current run
	status   Status
	gen      uint64
	cancel   context.CancelFunc
	runs     sync.WaitGroup
}

// NewRunner creates a new runner.
func NewRunner(loader Loader, bus *events.Bus, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		loader: loader,
		bus:    bus,
		config: cfg,
		logger: logger.With("component", "runner"),
		now:    time.Now,
		base:   context.Background(),
	}
}

// Run starts scheduled refreshes and blocks until ctx is canceled, then
// cancels any load in flight and waits for it to stop.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	r.base = ctx
	r.mu.Unlock()

	if r.config.LoadOnStart {
		r.Refresh(false, TriggerStartup)
	}

	g, ctx := errgroup.WithContext(ctx)

	if r.config.RefreshInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(r.config.RefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if !r.Snapshot().Status.Loading {
						r.Refresh(false, TriggerSchedule)
					}
				}
			}
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		r.mu.Lock()
		if r.cancel != nil {
			r.cancel()
		}
		r.mu.Unlock()
		r.runs.Wait()
		return nil
	})

	return g.Wait()
}

// Refresh starts a load, canceling the one in flight, and returns its run id.
func (r *Runner) Refresh(bypass bool, trigger string) string {
	runID := uuid.NewString()

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(r.base)
	r.cancel = cancel
	r.gen++
	gen := r.gen
	r.partial = nil
	r.status = Status{
		Loading:     true,
		RunID:       runID,
		Movies:      len(r.complete),
		LastError:   r.status.LastError,
		StartedAt:   r.now(),
		CompletedAt: r.status.CompletedAt,
	}
	r.runs.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.runs.Done()
		defer cancel()
		r.run(ctx, gen, runID, bypass, trigger)
	}()
	return runID
}

// Wait blocks until every started load has returned.
func (r *Runner) Wait() {
	r.runs.Wait()
}

// Snapshot returns the current movies and status. While the first load is
// in progress, Movies holds its partial results.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	movies := r.complete
	if movies == nil {
		movies = r.partial
	}
	status := r.status
	status.Failed = append([]pipeline.Failure(nil), r.status.Failed...)
	return Snapshot{Movies: movies, Status: status}
}

func (r *Runner) run(ctx context.Context, gen uint64, runID string, bypass bool, trigger string) {
	log := r.logger.With("run_id", runID)
	log.Info("refresh started", "bypass", bypass, "trigger", trigger)
	r.publish(events.NewLoadStarted(runID, bypass, trigger))

	var cached bool
	movies, err := r.loader.Load(pipeline.ContextWithRunID(ctx, runID), bypass, func(p pipeline.Progress) {
		cached = p.Cached
		r.progress(gen, p)
	})

	r.mu.Lock()
	current := gen == r.gen
	if current {
		r.status.Loading = false
		r.status.CompletedAt = r.now()
		if err != nil {
			r.status.LastError = err.Error()
		} else {
			r.complete = movies
			r.partial = nil
			r.status.LastError = ""
			r.status.Movies = len(movies)
		}
	}
	started := r.status.StartedAt
	failed := len(r.status.Failed)
	r.mu.Unlock()

	switch {
	case err != nil:
		canceled := errors.Is(err, context.Canceled)
		if canceled {
			log.Info("refresh canceled")
		} else {
			log.Error("refresh failed", "error", err)
		}
		r.publish(events.NewLoadFailed(runID, err.Error(), canceled))
	case !current:
		log.Info("refresh superseded")
	default:
		elapsed := r.now().Sub(started)
		log.Info("refresh completed", "movies", len(movies), "failed", failed, "duration", elapsed)
		r.publish(events.NewLoadCompleted(runID, len(movies), failed, cached, elapsed.Milliseconds()))
	}
}

func (r *Runner) progress(gen uint64, p pipeline.Progress) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.partial = p.Movies
	r.status.Done = p.Done
	r.status.Total = p.Total
	r.status.Failed = p.Failed
	if r.complete == nil {
		r.status.Movies = len(p.Movies)
	}
	r.mu.Unlock()

	if !p.Final {
		r.publish(events.NewLoadProgressed(p.RunID, p.Done, p.Total, len(p.Movies), len(p.Failed)))
	}
}

func (r *Runner) publish(e events.Event) {
	if r.bus == nil {
		return
	}
	// Publishing must not depend on the run's context, which may be canceled.
	if err := r.bus.Publish(context.Background(), e); err != nil {
		r.logger.Warn("publish failed", "type", e.EventType(), "error", err)
	}
}
