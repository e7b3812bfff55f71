package config

import (
	"fmt"
	"net/url"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.RefreshInterval < 0 {
		errs = append(errs, "server.refresh_interval: must not be negative")
	} else if c.Server.RefreshInterval > 0 && c.Server.RefreshInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("server.refresh_interval: must be at least 1m, got %s", c.Server.RefreshInterval))
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	// Origin validation
	if u, err := url.Parse(c.Origin.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("origin.base_url: must be an absolute http(s) URL, got %q", c.Origin.BaseURL))
	}
	if relay := c.Relay(); relay != "" {
		if u, err := url.Parse(relay); err != nil || u.Host == "" {
			errs = append(errs, fmt.Sprintf("origin.relay_url: must be an absolute URL or empty, got %q", relay))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("origin.timezone: %v", err))
	}
	if c.Origin.RateLimit < 0 {
		errs = append(errs, "origin.rate_limit: must not be negative")
	}
	if c.Origin.Retries < 0 || c.Origin.Retries > 10 {
		errs = append(errs, fmt.Sprintf("origin.retries: must be between 0 and 10, got %d", c.Origin.Retries))
	}
	if c.Origin.CacheTTL < 0 {
		errs = append(errs, "origin.cache_ttl: must not be negative")
	}

	// Enrichment validation
	if c.OMDb.Retries != nil && (*c.OMDb.Retries < 0 || *c.OMDb.Retries > 10) {
		errs = append(errs, fmt.Sprintf("omdb.retries: must be between 0 and 10, got %d", *c.OMDb.Retries))
	}
	if c.OMDb.BaseURL != "" {
		if u, err := url.Parse(c.OMDb.BaseURL); err != nil || u.Host == "" {
			errs = append(errs, fmt.Sprintf("omdb.base_url: must be an absolute URL, got %q", c.OMDb.BaseURL))
		}
	}
	if c.TMDB.BaseURL != "" {
		if u, err := url.Parse(c.TMDB.BaseURL); err != nil || u.Host == "" {
			errs = append(errs, fmt.Sprintf("tmdb.base_url: must be an absolute URL, got %q", c.TMDB.BaseURL))
		}
	}

	// Pipeline validation
	if c.Pipeline.BatchSize < 1 || c.Pipeline.BatchSize > 20 {
		errs = append(errs, fmt.Sprintf("pipeline.batch_size: must be between 1 and 20, got %d", c.Pipeline.BatchSize))
	}
	if c.Pipeline.MoviesTTL < 0 {
		errs = append(errs, "pipeline.movies_ttl: must not be negative")
	}

	return errs
}

// Warnings reports settings that are valid but degrade the result.
func (c *Config) Warnings() []string {
	var warns []string
	if c.OMDb.APIKey == "" {
		warns = append(warns, "omdb.api_key: not set, ratings enrichment disabled")
	}
	if c.TMDB.APIKey == "" {
		warns = append(warns, "tmdb.api_key: not set, trailers disabled")
	}
	return warns
}
