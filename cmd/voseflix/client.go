package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vmunix/voseflix/pkg/movie"
)

// Client wraps HTTP calls to the voseflix server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new voseflix API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// API response types (mirror server types)

type MovieResponse struct {
	movie.Movie
	Score         *float64                `json:"score,omitempty"`
	DurationLabel string                  `json:"duration_label,omitempty"`
	ByCinema      []movie.CinemaShowtimes `json:"by_cinema,omitempty"`
}

type ListMoviesResponse struct {
	Items   []MovieResponse `json:"items"`
	Total   int             `json:"total"`
	Loading bool            `json:"loading"`
}

// MovieFilter mirrors the movie list query parameters.
type MovieFilter struct {
	MinScore *float64
	Cinemas  []string
	Date     string
	From     string
	To       string
	Query    string
}

func (f MovieFilter) values() url.Values {
	v := url.Values{}
	if f.MinScore != nil {
		v.Set("min_score", strconv.FormatFloat(*f.MinScore, 'f', -1, 64))
	}
	for _, c := range f.Cinemas {
		v.Add("cinema", c)
	}
	if f.Date != "" {
		v.Set("date", f.Date)
	}
	if f.From != "" {
		v.Set("from", f.From)
	}
	if f.To != "" {
		v.Set("to", f.To)
	}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	return v
}

func (c *Client) Movies(f MovieFilter) (*ListMoviesResponse, error) {
	path := "/api/v1/movies"
	if q := f.values().Encode(); q != "" {
		path += "?" + q
	}
	var resp ListMoviesResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Movie(slug string) (*MovieResponse, error) {
	var resp MovieResponse
	if err := c.get("/api/v1/movies/"+url.PathEscape(slug), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Cinemas() ([]movie.Cinema, error) {
	var resp []movie.Cinema
	if err := c.get("/api/v1/cinemas", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

type DateResponse struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

func (c *Client) Dates() ([]DateResponse, error) {
	var resp []DateResponse
	if err := c.get("/api/v1/dates", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

type FailureResponse struct {
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

type StatusResponse struct {
	Loading     bool              `json:"loading"`
	RunID       string            `json:"run_id,omitempty"`
	Done        int               `json:"done"`
	Total       int               `json:"total"`
	Movies      int               `json:"movies"`
	Failed      []FailureResponse `json:"failed,omitempty"`
	LastError   string            `json:"last_error,omitempty"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Version     string            `json:"version,omitempty"`
}

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type RefreshRequest struct {
	Bypass bool `json:"bypass"`
}

type RefreshResponse struct {
	RunID string `json:"run_id"`
}

func (c *Client) Refresh(bypass bool) (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := c.post("/api/v1/refresh", RefreshRequest{Bypass: bypass}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type BookRequest struct {
	MovieSlug  string `json:"movie_slug"`
	CinemaSlug string `json:"cinema_slug"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

type BookResponse struct {
	Method string            `json:"method"`
	Action string            `json:"action"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (c *Client) Book(req BookRequest) (*BookResponse, error) {
	var resp BookResponse
	if err := c.post("/api/v1/book", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Event types

type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	path := fmt.Sprintf("/api/v1/events/history?limit=%d", limit)
	var resp ListEventsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
