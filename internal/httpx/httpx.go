// Package httpx holds the outbound HTTP policy shared by the origin scraper
// and the enrichment clients: timeouts, status errors and bounded retries.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// UserAgent identifies outbound requests.
const UserAgent = "voseflix/1.0 (+https://github.com/vmunix/voseflix)"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// NewClient returns an http.Client with the given timeout (DefaultTimeout when zero).
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Retry configures bounded retries. Retries is the number of attempts after
// the first; zero disables retrying.
type Retry struct {
	Retries int
	Delay   time.Duration
}

// Get performs a GET and returns the body, retrying transient failures per policy.
func Get(ctx context.Context, c *http.Client, url string, policy Retry) ([]byte, error) {
	attempts := uint(1)
	if policy.Retries > 0 {
		attempts += uint(policy.Retries)
	}
	delay := policy.Delay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	return retry.DoWithData(
		func() ([]byte, error) { return get(ctx, c, url) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
	)
}

func get(ctx context.Context, c *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// IsTransient reports whether err is a failure a retry might fix.
// Cancellation and non-retryable statuses are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
