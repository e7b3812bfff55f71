package app

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/voseflix/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	direct := ""
	cfg.Origin.RelayURL = &direct
	return cfg
}

func TestNew_WithoutEnrichers(t *testing.T) {
	a, err := New(testConfig(t), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Ratings)
	assert.False(t, a.Trailers)
	assert.Equal(t, config.DefaultBaseURL, a.Site.BaseURL)
	assert.Equal(t, "Europe/Madrid", a.Site.Location.String())
	assert.Equal(t, "https://example.com/x", a.Fetcher.RelayURL("https://example.com/x"))
}

func TestNew_WithEnrichers(t *testing.T) {
	cfg := testConfig(t)
	cfg.OMDb.APIKey = "omdb"
	cfg.TMDB.APIKey = "tmdb"

	a, err := New(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Ratings)
	assert.True(t, a.Trailers)
}

func TestNew_BadTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Origin.Timezone = "Nowhere/Special"

	_, err := New(cfg, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestNew_LoadsFromOrigin(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`<div class="movie"><a href="/m/dune/in-english-in-barcelona"><h3>Dune</h3></a></div>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer origin.Close()

	cfg := testConfig(t)
	cfg.Origin.BaseURL = origin.URL
	cfg.Origin.RateLimit = 0

	a, err := New(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Pipeline.Load(context.Background(), false, nil)
	require.NoError(t, err)

	_, cached := a.Pipeline.Cached(context.Background())
	assert.True(t, cached, "aggregate list is stored after a load")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "voseflix.log")
	var stdout bytes.Buffer

	logger, closer := NewLogger(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, &stdout)
	logger.Debug("hidden")
	logger.Info("refresh done", "movies", 3)
	require.NoError(t, closer.Close())

	assert.Contains(t, stdout.String(), "refresh done")
	assert.NotContains(t, stdout.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "movies=3")
}

func TestNewLogger_StdoutOnly(t *testing.T) {
	var stdout bytes.Buffer
	logger, closer := NewLogger(config.LogConfig{Level: "debug"}, &stdout)
	logger.Debug("visible")

	assert.Contains(t, stdout.String(), "visible")
	assert.NoError(t, closer.Close())
}
