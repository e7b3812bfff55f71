// Package omdb looks up ratings and extended metadata for a movie title.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/vmunix/voseflix/internal/httpx"
	"github.com/vmunix/voseflix/internal/store"
)

const (
	// DefaultBaseURL is the OMDb API endpoint.
	DefaultBaseURL = "https://www.omdbapi.com/"

	// DefaultRetries is the retry budget for a lookup.
	DefaultRetries = 2

	// cacheVersion tags cached supplements; entries with another version are ignored.
	cacheVersion = 2
)

// ErrNotFound is returned when OMDb has no match for the title.
var ErrNotFound = errors.New("not found")

// Client queries OMDb by exact title.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      store.Store
	retry      httpx.Retry
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
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

// NewClient creates an OMDb client. A nil cache disables caching.
func NewClient(apiKey string, cache store.Store, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: httpx.NewClient(0),
		cache:      cache,
		retry:      httpx.Retry{Retries: DefaultRetries},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "omdb")
	return c
}

// cacheEntry is the stored form of a supplement.
type cacheEntry struct {
	Version int        `json:"version"`
	Data    Supplement `json:"data"`
}

func cacheKey(title string) string {
	return strings.ToLower(title)
}

// Lookup returns what OMDb knows about title. Failures are logged and
// produce an empty supplement.
func (c *Client) Lookup(ctx context.Context, title string) Supplement {
	if c.apiKey == "" || strings.TrimSpace(title) == "" {
		return Supplement{}
	}

	if c.cache != nil {
		if entry, ok := store.GetJSON[cacheEntry](ctx, c.cache, cacheKey(title)); ok && entry.Version == cacheVersion {
			return entry.Data
		}
	}

	s, err := c.fetch(ctx, title)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.log.Debug("no ratings", "title", title)
		} else {
			c.log.Warn("ratings lookup failed", "title", title, "error", c.redact(err))
		}
		return Supplement{}
	}

	if c.cache != nil {
		if err := store.SetJSON(ctx, c.cache, cacheKey(title), cacheEntry{Version: cacheVersion, Data: s}, 0); err != nil {
			c.log.Warn("ratings cache write failed", "title", title, "error", err)
		}
	}
	return s
}

func (c *Client) fetch(ctx context.Context, title string) (Supplement, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("apikey", c.apiKey)

	body, err := httpx.Get(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), c.retry)
	if err != nil {
		return Supplement{}, fmt.Errorf("omdb request: %w", err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return Supplement{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.Response != "True" {
		return Supplement{}, fmt.Errorf("%q: %w", title, ErrNotFound)
	}
	return resp.supplement(), nil
}

// redact keeps the API key out of logged errors, which embed request URLs.
func (c *Client) redact(err error) string {
	msg := err.Error()
	if c.apiKey == "" {
		return msg
	}
	return strings.ReplaceAll(msg, c.apiKey, "REDACTED")
}
