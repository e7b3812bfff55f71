package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/voseflix/internal/config"
	"github.com/vmunix/voseflix/internal/store"
	"github.com/vmunix/voseflix/pkg/movie"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "never"},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-50 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimeAgo(tt.t, now))
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "-", formatScore(nil))
	assert.Equal(t, "86", formatScore(floatPtr(85.67)))
	assert.Equal(t, "-", formatYear(0))
	assert.Equal(t, "2024", formatYear(2024))
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Película...", truncate("Película muy larga", 11))
}

func cinema(slug, name string) movie.Cinema {
	return movie.NewCinema(slug, name)
}

func sampleMovies() []MovieResponse {
	verdi := cinema("verdi", "Verdi")
	cinesa := cinema("cinesa", "Cinesa Diagonal")
	return []MovieResponse{
		{
			Movie: movie.Movie{Title: "Dune: Part Two", Slug: "dune-part-two", Year: 2024, Showtimes: []movie.Showtime{
				{Cinema: cinesa, Date: "2025-01-10", Time: "21:15"},
				{Cinema: verdi, Date: "2025-01-08", Time: "16:00"},
			}},
			Score:         floatPtr(85.67),
			DurationLabel: "2h 46m",
		},
		{
			Movie: movie.Movie{Title: "Anora", Slug: "anora", Showtimes: []movie.Showtime{
				{Cinema: verdi, Date: "2025-01-10", Time: "21:15"},
			}},
		},
	}
}

func TestPrintMovies(t *testing.T) {
	var buf bytes.Buffer
	printMovies(&buf, &ListMoviesResponse{Items: sampleMovies(), Total: 2})

	out := buf.String()
	assert.Contains(t, out, "Movies (2):")
	assert.Contains(t, out, "Dune: Part Two")
	assert.Contains(t, out, "2h 46m")
	assert.Contains(t, out, "86")
	assert.NotContains(t, out, "loading")
}

func TestPrintMovies_Empty(t *testing.T) {
	var buf bytes.Buffer
	printMovies(&buf, &ListMoviesResponse{Loading: true})
	assert.Equal(t, "No movies yet (loading...)\n", buf.String())

	buf.Reset()
	printMovies(&buf, &ListMoviesResponse{})
	assert.Equal(t, "No movies found\n", buf.String())
}

func TestPrintMovie(t *testing.T) {
	mc := 79
	m := sampleMovies()[0]
	m.Ratings = movie.Ratings{
		RottenTomatoes: &movie.RottenTomatoes{Critics: 92},
		Metacritic:     &mc,
	}
	m.TrailerKey = "abc123"
	m.ByCinema = movie.GroupByCinema(m.Showtimes)

	var buf bytes.Buffer
	printMovie(&buf, &m)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Dune: Part Two (2024)\n"))
	assert.Contains(t, out, "92%")
	assert.Contains(t, out, "https://www.youtube.com/watch?v=abc123")
	assert.Less(t, strings.Index(out, "Cinesa Diagonal"), strings.Index(out, "Verdi"))
}

func TestFlattenShowtimes(t *testing.T) {
	rows := flattenShowtimes(sampleMovies(), "")
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-01-08", rows[0].Date)
	// Same slot sorts by title.
	assert.Equal(t, "Anora", rows[1].Movie)
	assert.Equal(t, "Dune: Part Two", rows[2].Movie)

	rows = flattenShowtimes(sampleMovies(), "anora")
	require.Len(t, rows, 1)
	assert.Equal(t, "anora", rows[0].MovieSlug)
}

func TestPrintShowtimes_GroupsDates(t *testing.T) {
	var buf bytes.Buffer
	printShowtimes(&buf, flattenShowtimes(sampleMovies(), ""))
	assert.Equal(t, 1, strings.Count(buf.String(), "2025-01-10"))
}

func TestPrintBooking_SortedFields(t *testing.T) {
	var buf bytes.Buffer
	printBooking(&buf, &BookResponse{
		Method: "POST",
		Action: "https://cinema.example/goto/cinesa/101",
		Fields: map[string]string{"showtimeId": "101", "cinemaslug": "cinesa", "movieslug": "dune"},
	})
	assert.Equal(t, "POST https://cinema.example/goto/cinesa/101\n  cinemaslug=cinesa\n  movieslug=dune\n  showtimeId=101\n", buf.String())
}

func TestWaitForRun(t *testing.T) {
	old := pollInterval
	pollInterval = time.Millisecond
	defer func() { pollInterval = old }()

	var calls atomic.Int32
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		Handler(func(w http.ResponseWriter, _ *http.Request) {
			n := calls.Add(1)
			respondJSON(t, w, http.StatusOK, StatusResponse{RunID: "r1", Loading: n < 3, Done: int(n), Total: 3, Movies: int(n)})
		}).
		Build()
	defer srv.Close()

	var polled []int
	status, err := waitForRun(NewClient(srv.URL), "r1", time.Minute, func(s *StatusResponse) {
		polled = append(polled, s.Done)
	})
	require.NoError(t, err)
	assert.False(t, status.Loading)
	assert.Equal(t, 3, status.Movies)
	assert.Equal(t, []int{1, 2}, polled)
}

func TestWaitForRun_Superseded(t *testing.T) {
	srv := newMockServer(t).
		RespondJSON(StatusResponse{RunID: "r2", Loading: true}).
		Build()
	defer srv.Close()

	_, err := waitForRun(NewClient(srv.URL), "r1", time.Minute, func(*StatusResponse) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "superseded")
}

func TestWaitForRun_Timeout(t *testing.T) {
	old := pollInterval
	pollInterval = time.Millisecond
	defer func() { pollInterval = old }()

	srv := newMockServer(t).
		RespondJSON(StatusResponse{RunID: "r1", Loading: true}).
		Build()
	defer srv.Close()

	_, err := waitForRun(NewClient(srv.URL), "r1", 5*time.Millisecond, func(*StatusResponse) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestPrintRefreshResult(t *testing.T) {
	var buf bytes.Buffer
	printRefreshResult(&buf, &StatusResponse{Movies: 12, Failed: []FailureResponse{{Slug: "gone", Error: "status 404"}}})
	assert.Contains(t, buf.String(), "Refresh complete: 12 movies")
	assert.Contains(t, buf.String(), "gone: status 404")

	buf.Reset()
	printRefreshResult(&buf, &StatusResponse{Movies: 12, LastError: "fetch listings: timeout"})
	assert.Contains(t, buf.String(), "Refresh failed: fetch listings: timeout")
	assert.Contains(t, buf.String(), "Keeping 12 movies")
}

func TestPrintStatus(t *testing.T) {
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	completed := now.Add(-2 * time.Hour)

	var buf bytes.Buffer
	printStatus(&buf, "http://localhost:8686", &StatusResponse{Movies: 7, CompletedAt: &completed, Version: "1.0.0"}, now)
	out := buf.String()
	assert.Contains(t, out, "voseflix 1.0.0 | Server: http://localhost:8686")
	assert.Contains(t, out, "idle")
	assert.Contains(t, out, "2h ago")

	buf.Reset()
	printStatus(&buf, "s", &StatusResponse{Loading: true, Done: 2, Total: 8}, now)
	assert.Contains(t, buf.String(), "loading (2/8)")
	assert.Contains(t, buf.String(), "never")
}

func TestPrintEvents(t *testing.T) {
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	printEvents(&buf, &ListEventsResponse{
		Items: []EventResponse{{EventType: "load.started", EntityID: "r1", OccurredAt: "2025-01-08T11:55:00Z"}},
		Total: 1,
	}, now)
	assert.Contains(t, buf.String(), "5m ago")
	assert.Contains(t, buf.String(), "load.started")
}

func testCacheConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "voseflix.db")
	return cfg
}

func seedCache(t *testing.T, cfg *config.Config, ttl time.Duration, now time.Time) {
	t.Helper()
	db, err := store.OpenDB(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()

	caches := store.NewSQLiteCaches(db, store.WithSQLiteClock(func() time.Time { return now }))
	ctx := context.Background()
	require.NoError(t, caches.HTML.Set(ctx, "https://example.com/", []byte("<html>"), ttl))
	require.NoError(t, caches.Movies.Set(ctx, "movies", []byte("[]"), ttl))
}

func TestClearCaches(t *testing.T) {
	cfg := testCacheConfig(t)
	seedCache(t, cfg, time.Hour, time.Now())

	var buf bytes.Buffer
	require.NoError(t, clearCaches(context.Background(), &buf, cfg))
	assert.Contains(t, buf.String(), "Cleared caches")

	buf.Reset()
	require.NoError(t, cacheStats(context.Background(), &buf, cfg))
	assert.Contains(t, buf.String(), "html")
	assert.NotContains(t, buf.String(), " 1 ")
}

func TestPruneCaches(t *testing.T) {
	cfg := testCacheConfig(t)
	seedCache(t, cfg, time.Minute, time.Now().Add(-time.Hour))

	var buf bytes.Buffer
	require.NoError(t, pruneCaches(context.Background(), &buf, cfg, 24*time.Hour))
	assert.Contains(t, buf.String(), "Pruned 2 expired cache entries")
	assert.Contains(t, buf.String(), "Pruned 0 events")
}

func runCommand(t *testing.T, cmd *cobra.Command, run func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	defer cmd.SetOut(nil)
	err := run(cmd, args)
	return buf.String(), err
}

func TestConfigTest_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9000\n"), 0644))

	out, err := runCommand(t, configTestCmd, runConfigTest, path)
	require.NoError(t, err)
	assert.Contains(t, out, "0.0.0.0:9000")
	assert.Contains(t, out, "omdb.api_key")
	assert.Contains(t, out, "Configuration valid!")
}

func TestConfigTest_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[pipeline]\nbatch_size = 99\n"), 0644))

	out, err := runCommand(t, configTestCmd, runConfigTest, path)
	require.Error(t, err)
	assert.Contains(t, out, "Validation errors:")
	assert.Contains(t, out, "pipeline.batch_size")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voseflix", "config.toml")

	out, err := runCommand(t, configInitCmd, runConfigInit, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = runCommand(t, configInitCmd, runConfigInit, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
