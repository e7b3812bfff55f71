package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/voseflix/internal/httpx"
	"github.com/vmunix/voseflix/pkg/movie"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org"
	defaultCacheTTL = 24 * time.Hour
	defaultTimeout  = 10 * time.Second
)

// ErrNotFound is returned when a movie doesn't exist in TMDB.
var ErrNotFound = errors.New("movie not found")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      httpx.Retry
	trailers   *cache[string]
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets how long found trailers are remembered.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.trailers = newCache[string](ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetry sets the retry policy.
func WithRetry(r httpx.Retry) Option {
	return func(c *Client) {
		c.retry = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: httpx.NewClient(defaultTimeout),
		retry:      httpx.Retry{Retries: 2},
		trailers:   newCache[string](defaultCacheTTL),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "tmdb")
	return c
}

// SearchMovie searches by title, narrowed by release year when year > 0.
func (c *Client) SearchMovie(ctx context.Context, title string, year int) ([]Movie, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", title)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var resp searchResponse
	if err := c.get(ctx, "/3/search/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", title, err)
	}
	return resp.Results, nil
}

// Videos lists the videos attached to a movie.
func (c *Client) Videos(ctx context.Context, tmdbID int64) ([]Video, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	var resp videosResponse
	if err := c.get(ctx, fmt.Sprintf("/3/movie/%d/videos", tmdbID), params, &resp); err != nil {
		return nil, fmt.Errorf("videos %d: %w", tmdbID, err)
	}
	return resp.Results, nil
}

// ClearCache forgets every cached trailer.
func (c *Client) ClearCache() {
	c.trailers.clear()
}

// FindTrailer returns the YouTube key of the best trailer for the first
// search result, or "" when there is none. Errors are logged, not returned.
func (c *Client) FindTrailer(ctx context.Context, title string, year int) string {
	if c.apiKey == "" || strings.TrimSpace(title) == "" {
		return ""
	}

	cacheKey := strings.ToLower(title) + "|" + strconv.Itoa(year)
	if key, ok := c.trailers.get(cacheKey); ok {
		return key
	}

	results, err := c.SearchMovie(ctx, title, year)
	if err != nil {
		c.log.Warn("trailer search failed", "title", title, "error", c.redact(err))
		return ""
	}
	if len(results) == 0 {
		c.log.Debug("no search results", "title", title, "year", year)
		return ""
	}

	first := results[0]
	if match := movie.MatchTitle(title, []string{first.Title, first.OriginalTitle}); match.Confidence < movie.ConfidenceMedium {
		c.log.Info("weak trailer match", "title", title, "tmdb_title", first.Title,
			"tmdb_id", first.ID, "score", match.Score, "confidence", match.Confidence.String())
	}

	videos, err := c.Videos(ctx, first.ID)
	if err != nil {
		c.log.Warn("trailer videos failed", "title", title, "tmdb_id", first.ID, "error", c.redact(err))
		return ""
	}

	v, ok := PickTrailer(videos)
	if !ok {
		return ""
	}
	c.trailers.set(cacheKey, v.Key)
	return v.Key
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := httpx.Get(ctx, c.httpClient, c.baseURL+path+"?"+params.Encode(), c.retry)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) redact(err error) string {
	if c.apiKey == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), c.apiKey, "REDACTED")
}
