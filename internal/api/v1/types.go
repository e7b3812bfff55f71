package v1

import (
	"time"

	"github.com/vmunix/voseflix/internal/server"
	"github.com/vmunix/voseflix/pkg/movie"
)

// movieResponse is the API representation of a movie.
type movieResponse struct {
	movie.Movie
	Score         *float64                `json:"score,omitempty"`
	DurationLabel string                  `json:"duration_label,omitempty"`
	ByCinema      []movie.CinemaShowtimes `json:"by_cinema,omitempty"`
}

// listMoviesResponse is the response for GET /movies.
type listMoviesResponse struct {
	Items   []movieResponse `json:"items"`
	Total   int             `json:"total"`
	Loading bool            `json:"loading"`
}

// dateResponse is one showtime date with its display label.
type dateResponse struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// statusResponse is the response for GET /status.
type statusResponse struct {
	server.Status
	Version string `json:"version,omitempty"`
}

// refreshRequest is the body of POST /refresh.
type refreshRequest struct {
	Bypass bool `json:"bypass"`
}

// refreshResponse is the response for POST /refresh.
type refreshResponse struct {
	RunID string `json:"run_id"`
}

// bookRequest identifies a showtime by movie and slot.
type bookRequest struct {
	MovieSlug  string `json:"movie_slug"`
	CinemaSlug string `json:"cinema_slug"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// bookResponse tells the client how to reach the booking page: POST the
// fields to Action when direct booking is possible, otherwise GET Action.
type bookResponse struct {
	Method string            `json:"method"`
	Action string            `json:"action"`
	Fields map[string]string `json:"fields,omitempty"`
}

// EventResponse is a persisted event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
	Payload    any    `json:"payload,omitempty"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}

func toMovieResponse(m movie.Movie, detail bool) movieResponse {
	resp := movieResponse{Movie: m}
	if score, ok := m.Score(); ok {
		resp.Score = &score
	}
	if m.Duration > 0 {
		resp.DurationLabel = movie.FormatDuration(m.Duration)
	}
	if detail {
		resp.ByCinema = movie.GroupByCinema(m.Showtimes)
	}
	return resp
}

func formatEventTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
