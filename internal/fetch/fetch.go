// Package fetch retrieves origin HTML through the relay, with a time-boxed cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/vmunix/voseflix/internal/httpx"
	"github.com/vmunix/voseflix/internal/store"
)

// DefaultRelay is the relay every origin request is routed through.
const DefaultRelay = "https://corsproxy.io/?"

// DefaultCacheTTL is how long fetched HTML stays valid.
const DefaultCacheTTL = 8 * time.Hour

// FetchError reports a failed page fetch. StatusCode is zero for network failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves pages, consulting the HTML cache first.
type Fetcher struct {
	httpClient *http.Client
	cache      store.Store
	relay      string
	ttl        time.Duration
	limiter    *rate.Limiter
	retry      httpx.Retry
	log        *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRelay sets the relay prefix. An empty prefix fetches origin URLs directly.
func WithRelay(prefix string) Option {
	return func(f *Fetcher) {
		f.relay = prefix
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = hc
	}
}

// WithCacheTTL sets the HTML cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.ttl = ttl
	}
}

// WithRateLimit limits outbound requests to r per second with the given burst.
// A zero rate disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(f *Fetcher) {
		if r <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(r), max(burst, 1))
	}
}

// WithRetry enables bounded retries of transient failures.
func WithRetry(policy httpx.Retry) Option {
	return func(f *Fetcher) {
		f.retry = policy
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(f *Fetcher) {
		f.log = log
	}
}

// New creates a Fetcher backed by the given HTML cache.
func New(cache store.Store, opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: httpx.NewClient(httpx.DefaultTimeout),
		cache:      cache,
		relay:      DefaultRelay,
		ttl:        DefaultCacheTTL,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RelayURL returns the URL actually requested for target.
func (f *Fetcher) RelayURL(target string) string {
	if f.relay == "" {
		return target
	}
	return f.relay + url.QueryEscape(target)
}

// Fetch returns the HTML at target. A cached copy within TTL is returned
// without network access; fresh responses are cached under the exact target URL.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	if data, ok := f.cache.Get(ctx, target); ok {
		f.log.Debug("html cache hit", "url", target)
		return string(data), nil
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", &FetchError{URL: target, Err: err}
		}
	}

	start := time.Now()
	body, err := httpx.Get(ctx, f.httpClient, f.RelayURL(target), f.retry)
	if err != nil {
		fe := &FetchError{URL: target, Err: err}
		var se *httpx.StatusError
		if errors.As(err, &se) {
			fe.StatusCode = se.StatusCode
		}
		return "", fe
	}
	f.log.Debug("html fetched", "url", target, "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())

	if err := f.cache.Set(ctx, target, body, f.ttl); err != nil {
		f.log.Warn("html cache write failed", "url", target, "error", err)
	}
	return string(body), nil
}
