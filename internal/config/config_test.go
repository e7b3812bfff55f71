package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0:8686", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultDBPath, cfg.Database.Path)
	assert.Equal(t, DefaultBaseURL, cfg.Origin.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Origin.Timeout)
	assert.InDelta(t, 4.0, cfg.Origin.RateLimit, 0)
	assert.Zero(t, cfg.Origin.Retries, "origin fetches fail fast by default")
	assert.Zero(t, cfg.Server.RefreshInterval)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())
}

func TestLoadOnStart(t *testing.T) {
	assert.True(t, ServerConfig{}.ShouldLoadOnStart())

	off := false
	assert.False(t, ServerConfig{LoadOnStart: &off}.ShouldLoadOnStart())
}

func TestLoad_AllSections(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9090
refresh_interval = "2h"
load_on_start = false

[log]
level = "debug"
file = "/var/log/voseflix/voseflix.log"
max_size_mb = 10
compress = true

[database]
path = "/var/lib/voseflix/voseflix.db"

[origin]
base_url = "https://cinema.example"
relay_url = "https://relay.example/?url="
timezone = "Europe/London"
timeout = "5s"
cache_ttl = "1h"
rate_limit = 1.5
burst = 3
retries = 2
resolve_booking_urls = true

[omdb]
api_key = "omdb-key"
base_url = "http://omdb.local/"
retries = 0

[tmdb]
api_key = "tmdb-key"
cache_ttl = "12h"

[pipeline]
batch_size = 5
movies_ttl = "30m"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, 2*time.Hour, cfg.Server.RefreshInterval)
	assert.False(t, cfg.Server.ShouldLoadOnStart())

	assert.Equal(t, LogConfig{
		Level:      "debug",
		File:       "/var/log/voseflix/voseflix.log",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}, cfg.Log)
	assert.Equal(t, "/var/lib/voseflix/voseflix.db", cfg.Database.Path)

	assert.Equal(t, "https://cinema.example", cfg.Origin.BaseURL)
	assert.Equal(t, "https://relay.example/?url=", cfg.Relay())
	assert.Equal(t, 5*time.Second, cfg.Origin.Timeout)
	assert.Equal(t, time.Hour, cfg.Origin.CacheTTL)
	assert.InDelta(t, 1.5, cfg.Origin.RateLimit, 0)
	assert.Equal(t, 3, cfg.Origin.Burst)
	assert.Equal(t, 2, cfg.Origin.Retries)
	assert.True(t, cfg.Origin.ResolveBookingURLs)

	require.NotNil(t, cfg.OMDb.Retries)
	assert.Zero(t, *cfg.OMDb.Retries)
	assert.Equal(t, "http://omdb.local/", cfg.OMDb.BaseURL)
	assert.Equal(t, 12*time.Hour, cfg.TMDB.CacheTTL)

	assert.Equal(t, 5, cfg.Pipeline.BatchSize)
	assert.Equal(t, 30*time.Minute, cfg.Pipeline.MoviesTTL)
}
