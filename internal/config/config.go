// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Database DatabaseConfig `toml:"database"`
	Origin   OriginConfig   `toml:"origin"`
	OMDb     OMDbConfig     `toml:"omdb"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

type ServerConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	RefreshInterval time.Duration `toml:"refresh_interval"` // 0 disables scheduled refreshes
	LoadOnStart     *bool         `toml:"load_on_start"`
}

// ShouldLoadOnStart reports whether the daemon loads movies at startup (default true).
func (s ServerConfig) ShouldLoadOnStart() bool {
	return s.LoadOnStart == nil || *s.LoadOnStart
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"` // rotated with lumberjack when set
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type OriginConfig struct {
	BaseURL            string        `toml:"base_url"`
	RelayURL           *string       `toml:"relay_url"` // nil uses the default relay, "" fetches directly
	Timezone           string        `toml:"timezone"`
	Timeout            time.Duration `toml:"timeout"`
	CacheTTL           time.Duration `toml:"cache_ttl"`
	RateLimit          float64       `toml:"rate_limit"` // requests per second, 0 = unlimited
	Burst              int           `toml:"burst"`
	Retries            int           `toml:"retries"`
	ResolveBookingURLs bool          `toml:"resolve_booking_urls"`
}

type OMDbConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Retries *int   `toml:"retries"`
}

type TMDBConfig struct {
	APIKey   string        `toml:"api_key"`
	BaseURL  string        `toml:"base_url"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

type PipelineConfig struct {
	BatchSize int           `toml:"batch_size"`
	MoviesTTL time.Duration `toml:"movies_ttl"`
}

// Defaults.
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 8686
	DefaultLogLevel  = "info"
	DefaultDBPath    = "./data/voseflix.db"
	DefaultBaseURL   = "https://englishcinemabarcelona.com"
	DefaultRelayURL  = "https://corsproxy.io/?"
	DefaultTimezone  = "Europe/Madrid"
	DefaultCacheTTL  = 8 * time.Hour
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 4
	DefaultBatchSize = 3
)

// Load reads, substitutes, defaults and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &Error{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads the configuration file and applies defaults.
// Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &Error{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	if c.Origin.BaseURL == "" {
		c.Origin.BaseURL = DefaultBaseURL
	}
	if c.Origin.RelayURL == nil {
		relay := DefaultRelayURL
		c.Origin.RelayURL = &relay
	}
	if c.Origin.Timezone == "" {
		c.Origin.Timezone = DefaultTimezone
	}
	if c.Origin.Timeout == 0 {
		c.Origin.Timeout = DefaultTimeout
	}
	if c.Origin.CacheTTL == 0 {
		c.Origin.CacheTTL = DefaultCacheTTL
	}
	if c.Origin.RateLimit == 0 {
		c.Origin.RateLimit = DefaultRateLimit
	}
	if c.Origin.Burst == 0 {
		c.Origin.Burst = 2
	}
	if c.TMDB.CacheTTL == 0 {
		c.TMDB.CacheTTL = 24 * time.Hour
	}
	if c.Pipeline.BatchSize == 0 {
		c.Pipeline.BatchSize = DefaultBatchSize
	}
	if c.Pipeline.MoviesTTL == 0 {
		c.Pipeline.MoviesTTL = DefaultCacheTTL
	}
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Location loads the origin's timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Origin.Timezone)
}

// Relay returns the configured relay prefix.
func (c *Config) Relay() string {
	if c.Origin.RelayURL == nil {
		return DefaultRelayURL
	}
	return *c.Origin.RelayURL
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references and returns the names
// (or "NAME: message" for :?) of variables that could not be resolved.
// Unresolved references are left in place. Comment lines are not expanded.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = expandLine(line, &missing)
	}
	return strings.Join(lines, "\n"), missing
}

func expandLine(line string, missing *[]string) string {
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				*missing = append(*missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				*missing = append(*missing, name)
				return match
			}
			return value
		}
	})
}
