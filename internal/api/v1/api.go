// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/voseflix/internal/scrape"
	"github.com/vmunix/voseflix/internal/server"
	"github.com/vmunix/voseflix/pkg/movie"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
}

// NewWithDeps creates a new v1 API server with explicit dependencies.
func NewWithDeps(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDependency, err)
	}
	if deps.Site.BaseURL == "" {
		deps.Site = scrape.NewSite("", deps.Site.Location)
	}
	if deps.Site.Location == nil {
		deps.Site.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Server{deps: deps}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Movies
	mux.HandleFunc("GET /api/v1/movies", s.listMovies)
	mux.HandleFunc("GET /api/v1/movies/{slug}", s.getMovie)
	mux.HandleFunc("GET /api/v1/cinemas", s.listCinemas)
	mux.HandleFunc("GET /api/v1/dates", s.listDates)
	mux.HandleFunc("POST /api/v1/book", s.book)

	// Loading
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("POST /api/v1/refresh", s.refresh)

	// Events
	mux.HandleFunc("GET /api/v1/events", s.requireBus(s.streamEvents))
	mux.HandleFunc("GET /api/v1/events/history", s.requireEventLog(s.listEvents))
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryList collects a repeatable parameter; comma-separated values are split.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseFilter reads movie filters from the query string.
func parseFilter(r *http.Request) (movie.Filter, error) {
	q := r.URL.Query()
	f := movie.Filter{
		Cinemas: queryList(r, "cinema"),
		Query:   strings.TrimSpace(q.Get("q")),
	}

	if v := q.Get("min_score"); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil || score < 0 || score > 100 {
			return f, errors.New("min_score must be a number between 0 and 100")
		}
		f.MinScore = &score
	}
	if v := q.Get("date"); v != "" {
		if _, err := time.Parse(movie.DateLayout, v); err != nil {
			return f, errors.New("date must be YYYY-MM-DD")
		}
		f.Date = v
	}
	for _, bound := range []struct {
		name string
		dst  **int
	}{{"from", &f.From}, {"to", &f.To}} {
		v := q.Get(bound.name)
		if v == "" {
			continue
		}
		mins, ok := movie.TimeToMinutes(v)
		if !ok {
			return f, fmt.Errorf("%s must be HH:MM", bound.name)
		}
		*bound.dst = &mins
	}
	return f, nil
}

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	snap := s.deps.Runner.Snapshot()
	movies := filter.Apply(snap.Movies)

	resp := listMoviesResponse{
		Items:   make([]movieResponse, len(movies)),
		Total:   len(movies),
		Loading: snap.Status.Loading,
	}
	for i, m := range movies {
		resp.Items[i] = toMovieResponse(m, false)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) findMovie(slug string) (movie.Movie, bool) {
	for _, m := range s.deps.Runner.Snapshot().Movies {
		if m.Slug == slug {
			return m, true
		}
	}
	return movie.Movie{}, false
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	m, ok := s.findMovie(r.PathValue("slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, toMovieResponse(m, true))
}

func (s *Server) listCinemas(w http.ResponseWriter, r *http.Request) {
	cinemas := movie.Cinemas(s.deps.Runner.Snapshot().Movies)
	if cinemas == nil {
		cinemas = []movie.Cinema{}
	}
	writeJSON(w, http.StatusOK, cinemas)
}

func (s *Server) listDates(w http.ResponseWriter, r *http.Request) {
	now := s.deps.Now().In(s.deps.Site.Location)
	dates := movie.Dates(s.deps.Runner.Snapshot().Movies)

	resp := make([]dateResponse, len(dates))
	for i, d := range dates {
		resp[i] = dateResponse{Date: d, Label: movie.FormatDateLabel(d, now)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:  s.deps.Runner.Snapshot().Status,
		Version: s.deps.Version,
	})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if v := r.URL.Query().Get("bypass"); v != "" {
		bypass, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BYPASS", "bypass must be a boolean")
			return
		}
		req.Bypass = bypass
	}

	runID := s.deps.Runner.Refresh(req.Bypass, server.TriggerAPI)
	writeJSON(w, http.StatusAccepted, refreshResponse{RunID: runID})
}

func (s *Server) book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.MovieSlug == "" || req.CinemaSlug == "" || req.Date == "" || req.Time == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "movie_slug, cinema_slug, date and time are required")
		return
	}

	m, ok := s.findMovie(req.MovieSlug)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return
	}
	want := movie.ShowtimeKey{CinemaSlug: req.CinemaSlug, Date: req.Date, Time: req.Time}
	for _, st := range m.Showtimes {
		if st.Key() == want {
			writeJSON(w, http.StatusOK, s.booking(st))
			return
		}
	}
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Showtime not found")
}

// booking builds the direct booking form when the showtime and movie ids
// are known, else points at the plain booking URL.
func (s *Server) booking(st movie.Showtime) bookResponse {
	if st.ShowtimeID == "" || st.MovieSlug == "" {
		return bookResponse{Method: http.MethodGet, Action: st.BookingURL}
	}
	return bookResponse{
		Method: http.MethodPost,
		Action: s.deps.Site.GotoURL(st.Cinema.Slug, st.ShowtimeID),
		Fields: map[string]string{
			"showtimeId": st.ShowtimeID,
			"cinemaslug": st.Cinema.Slug,
			"movieslug":  st.MovieSlug,
		},
	}
}
