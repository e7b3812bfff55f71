package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidate_Defaults(t *testing.T) {
	errs := Default().Validate()
	assert.Empty(t, errs, "expected no errors for the default config")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "server.port"},
		{"negative refresh", func(c *Config) { c.Server.RefreshInterval = -time.Second }, "server.refresh_interval"},
		{"refresh too frequent", func(c *Config) { c.Server.RefreshInterval = 10 * time.Second }, "at least 1m"},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"relative base url", func(c *Config) { c.Origin.BaseURL = "/m/dune" }, "origin.base_url"},
		{"ftp base url", func(c *Config) { c.Origin.BaseURL = "ftp://englishcinemabarcelona.com" }, "origin.base_url"},
		{"bad relay", func(c *Config) { relay := "corsproxy"; c.Origin.RelayURL = &relay }, "origin.relay_url"},
		{"unknown timezone", func(c *Config) { c.Origin.Timezone = "Mars/Olympus" }, "origin.timezone"},
		{"negative rate", func(c *Config) { c.Origin.RateLimit = -1 }, "origin.rate_limit"},
		{"too many retries", func(c *Config) { c.Origin.Retries = 11 }, "origin.retries"},
		{"omdb retries", func(c *Config) { n := -1; c.OMDb.Retries = &n }, "omdb.retries"},
		{"omdb base url", func(c *Config) { c.OMDb.BaseURL = "omdbapi" }, "omdb.base_url"},
		{"tmdb base url", func(c *Config) { c.TMDB.BaseURL = "tmdb" }, "tmdb.base_url"},
		{"batch size", func(c *Config) { c.Pipeline.BatchSize = 50 }, "pipeline.batch_size"},
		{"movies ttl", func(c *Config) { c.Pipeline.MoviesTTL = -time.Hour }, "pipeline.movies_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			assert.True(t, containsError(errs, tt.want), "expected %s error, got %v", tt.want, errs)
		})
	}
}

func TestValidate_DirectFetching(t *testing.T) {
	cfg := Default()
	empty := ""
	cfg.Origin.RelayURL = &empty
	assert.Empty(t, cfg.Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Log.Level = "loud"
	cfg.Pipeline.BatchSize = 0

	errs := cfg.Validate()
	assert.Len(t, errs, 3)
}

func TestWarnings(t *testing.T) {
	cfg := Default()
	warns := cfg.Warnings()
	assert.True(t, containsError(warns, "omdb.api_key"))
	assert.True(t, containsError(warns, "tmdb.api_key"))

	cfg.OMDb.APIKey = "key"
	cfg.TMDB.APIKey = "key"
	assert.Empty(t, cfg.Warnings())
}
