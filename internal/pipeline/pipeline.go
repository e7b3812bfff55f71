// Package pipeline loads the full movie list: listings, detail pages and the
// overview grid from the origin, reconciled and enriched with ratings and
// trailers, emitted progressively in batches.
package pipeline

//go:generate mockgen -destination=mocks/pipeline.go -package=mocks . Fetcher,RatingsEnricher,TrailerEnricher

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/voseflix/internal/omdb"
	"github.com/vmunix/voseflix/internal/scrape"
	"github.com/vmunix/voseflix/internal/store"
	"github.com/vmunix/voseflix/pkg/movie"
)

const (
	// DefaultBatchSize bounds concurrent detail pipelines.
	DefaultBatchSize = 3

	// DefaultMoviesTTL is how long an aggregated movie list stays fresh.
	DefaultMoviesTTL = 8 * time.Hour

	// aggregateKey is the movies-cache key of the final list.
	aggregateKey = "movies"
)

// Fetcher retrieves origin pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// RatingsEnricher looks up ratings by title. It never fails; an unknown
// title yields an empty supplement.
type RatingsEnricher interface {
	Lookup(ctx context.Context, title string) omdb.Supplement
}

// TrailerEnricher finds a trailer video key, "" when there is none.
type TrailerEnricher interface {
	FindTrailer(ctx context.Context, title string, year int) string
}

// cacheClearer is implemented by enrichers that keep their own cache.
type cacheClearer interface {
	ClearCache()
}

// Failure records a movie dropped because its detail page could not be fetched.
type Failure struct {
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

// Progress is emitted after every batch. Movies is sorted.
type Progress struct {
	RunID  string        `json:"run_id"`
	Movies []movie.Movie `json:"movies"`
	Done   int           `json:"done"`
	Total  int           `json:"total"`
	Failed []Failure     `json:"failed,omitempty"`
	Final  bool          `json:"final"`
	Cached bool          `json:"cached,omitempty"`
}

// ProgressFunc receives progress emissions.
type ProgressFunc func(Progress)

// Pipeline orchestrates a load.
type Pipeline struct {
	fetcher        Fetcher
	parser         *scrape.Parser
	caches         store.Caches
	ratings        RatingsEnricher
	trailers       TrailerEnricher
	batchSize      int
	moviesTTL      time.Duration
	resolveBooking bool
	newRunID       func() string
	log            *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRatings sets the ratings enricher.
func WithRatings(r RatingsEnricher) Option {
	return func(p *Pipeline) {
		p.ratings = r
	}
}

// WithTrailers sets the trailer enricher.
func WithTrailers(t TrailerEnricher) Option {
	return func(p *Pipeline) {
		p.trailers = t
	}
}

// WithBatchSize sets how many movies are processed concurrently.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithMoviesTTL sets the aggregate cache TTL.
func WithMoviesTTL(ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.moviesTTL = ttl
	}
}

// WithBookingResolution enables following booking redirect pages to the
// ticketing site's URL.
func WithBookingResolution(enabled bool) Option {
	return func(p *Pipeline) {
		p.resolveBooking = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// New creates a Pipeline. Without enrichers, movies carry scraped data only.
func New(fetcher Fetcher, parser *scrape.Parser, caches store.Caches, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:   fetcher,
		parser:    parser,
		caches:    caches,
		ratings:   noRatings{},
		trailers:  noTrailers{},
		batchSize: DefaultBatchSize,
		moviesTTL: DefaultMoviesTTL,
		newRunID:  uuid.NewString,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With("component", "pipeline")
	return p
}

// Cached returns the aggregate list if a fresh one is stored.
func (p *Pipeline) Cached(ctx context.Context) ([]movie.Movie, bool) {
	return store.GetJSON[[]movie.Movie](ctx, p.caches.Movies, aggregateKey)
}

type runIDKey struct{}

// ContextWithRunID makes Load use id as its run id.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run id set by ContextWithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

func (p *Pipeline) runID(ctx context.Context) string {
	if id := RunIDFromContext(ctx); id != "" {
		return id
	}
	return p.newRunID()
}

// Load produces the sorted movie list, calling onProgress after each batch
// and once more with Final set. With bypass, every cache is cleared first;
// otherwise a fresh aggregate list is returned straight away.
//
// A failed listing fetch is the only terminal error besides cancellation.
func (p *Pipeline) Load(ctx context.Context, bypass bool, onProgress ProgressFunc) ([]movie.Movie, error) {
	if onProgress == nil {
		onProgress = func(Progress) {}
	}
	runID := p.runID(ctx)
	log := p.log.With("run_id", runID)

	if bypass {
		if err := p.caches.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("clear caches: %w", err)
		}
		for _, e := range []any{p.ratings, p.trailers} {
			if c, ok := e.(cacheClearer); ok {
				c.ClearCache()
			}
		}
	} else if cached, ok := p.Cached(ctx); ok {
		log.Debug("aggregate cache hit", "movies", len(cached))
		onProgress(Progress{RunID: runID, Movies: cached, Done: len(cached), Total: len(cached), Final: true, Cached: true})
		return cached, nil
	}

	site := p.parser.Site()
	overview := p.startOverview(ctx, site.OverviewURL(), log)

	html, err := p.fetcher.Fetch(ctx, site.HomeURL())
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	listings, err := p.parser.ParseListings(html)
	if err != nil {
		return nil, err
	}

	total := len(listings)
	log.Info("load started", "movies", total, "bypass", bypass)
	start := time.Now()

	var movies []movie.Movie
	var failed []Failure
	for lo := 0; lo < total; lo += p.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := min(lo+p.batchSize, total)
		results := p.runBatch(ctx, listings[lo:hi], overview, log)

		for _, r := range results {
			switch {
			case r.err != nil:
				failed = append(failed, Failure{Slug: r.slug, Error: r.err.Error()})
			case r.ok:
				movies = append(movies, r.movie)
			}
		}
		onProgress(Progress{
			RunID:  runID,
			Movies: movie.Sort(movies),
			Done:   hi,
			Total:  total,
			Failed: slices.Clone(failed),
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	final := movie.Sort(movies)
	if final == nil {
		final = []movie.Movie{}
	}
	if err := store.SetJSON(ctx, p.caches.Movies, aggregateKey, final, p.moviesTTL); err != nil {
		log.Warn("aggregate cache write failed", "error", err)
	}

	log.Info("load completed", "movies", len(final), "failed", len(failed), "duration", time.Since(start))
	onProgress(Progress{
		RunID:  runID,
		Movies: final,
		Done:   total,
		Total:  total,
		Failed: failed,
		Final:  true,
	})
	return final, nil
}

// startOverview fetches and parses the overview grid in the background.
// The returned function blocks until it is available. Failures yield an
// empty map.
func (p *Pipeline) startOverview(ctx context.Context, url string, log *slog.Logger) func() map[string][]movie.Showtime {
	ch := make(chan map[string][]movie.Showtime, 1)
	go func() {
		ch <- p.loadOverview(ctx, url, log)
	}()
	return sync.OnceValue(func() map[string][]movie.Showtime {
		return <-ch
	})
}

func (p *Pipeline) loadOverview(ctx context.Context, url string, log *slog.Logger) map[string][]movie.Showtime {
	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("overview fetch failed", "error", err)
		return map[string][]movie.Showtime{}
	}
	byMovie, err := p.parser.ParseOverview(html)
	if err != nil {
		log.Warn("overview parse failed", "error", err)
		return map[string][]movie.Showtime{}
	}
	return byMovie
}

type stubResult struct {
	slug  string
	movie movie.Movie
	ok    bool
	err   error
}

// runBatch processes one batch concurrently. Results keep input order.
func (p *Pipeline) runBatch(ctx context.Context, batch []movie.Listing, overview func() map[string][]movie.Showtime, log *slog.Logger) []stubResult {
	results := make([]stubResult, len(batch))
	var g errgroup.Group
	for i, l := range batch {
		g.Go(func() error {
			results[i] = p.processStub(ctx, l, overview, log)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Pipeline) processStub(ctx context.Context, l movie.Listing, overview func() map[string][]movie.Showtime, log *slog.Logger) stubResult {
	log = log.With("slug", l.Slug)
	res := stubResult{slug: l.Slug}

	html, err := p.fetcher.Fetch(ctx, p.parser.Site().DetailURL(l.Slug))
	if err != nil {
		log.Warn("detail fetch failed", "error", err)
		res.err = err
		return res
	}

	m, ok := p.parser.ParseDetail(l.Slug, html)
	if !ok {
		log.Debug("detail page has no title, dropping")
		return res
	}
	if m.PosterURL == "" {
		m.PosterURL = l.PosterURL
	}
	if m.Duration == 0 {
		m.Duration = l.Duration
	}

	showtimes, conflicts := movie.Reconcile(m.Showtimes, overview()[l.Slug])
	for _, c := range conflicts {
		log.Warn("showtime sources disagree", "cinema", c.Key.CinemaSlug, "date", c.Key.Date, "time", c.Key.Time,
			"overview_id", c.Overview.ShowtimeID, "detail_id", c.Detail.ShowtimeID)
	}
	if p.resolveBooking {
		showtimes = scrape.ResolveBookingURLs(ctx, p.fetcher, showtimes, log)
	}
	m.Showtimes = showtimes

	omdb.Apply(&m, p.ratings.Lookup(ctx, m.Title))
	m.TrailerKey = p.trailers.FindTrailer(ctx, m.Title, m.Year)

	res.movie = m
	res.ok = true
	return res
}

type noRatings struct{}

func (noRatings) Lookup(context.Context, string) omdb.Supplement { return omdb.Supplement{} }

type noTrailers struct{}

func (noTrailers) FindTrailer(context.Context, string, int) string { return "" }
