package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "voseflix", "config.toml")
	if err := WriteDefault(cfgPath, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Set env vars (t.Setenv auto-restores on cleanup)
	t.Setenv("OMDB_API_KEY", "test-omdb-key")
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("VOSEFLIX_LOG_LEVEL", "debug")

	// 3. Load with validation; the default config must be valid as written
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution
	if cfg.OMDb.APIKey != "test-omdb-key" {
		t.Errorf("expected omdb key substituted, got %q", cfg.OMDb.APIKey)
	}
	if cfg.TMDB.APIKey != "" {
		t.Errorf("expected empty tmdb key, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Log.Level)
	}

	// 5. Verify durations and defaults
	if cfg.Server.RefreshInterval != time.Hour {
		t.Errorf("expected refresh interval 1h, got %s", cfg.Server.RefreshInterval)
	}
	if cfg.TMDB.CacheTTL != 24*time.Hour {
		t.Errorf("expected tmdb cache ttl 24h, got %s", cfg.TMDB.CacheTTL)
	}
	if cfg.Origin.ResolveBookingURLs {
		t.Error("expected booking resolution off by default")
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Server.Port)
	}
}
