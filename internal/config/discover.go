package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "VOSEFLIX_CONFIG"

// ErrNotFound is returned by Discover when no candidate file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath is the per-user config file, under $XDG_CONFIG_HOME when set.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "voseflix", "config.toml")
}

// Candidates lists the files Discover tries when VOSEFLIX_CONFIG is unset,
// in order.
func Candidates() []string {
	return []string{
		"config.toml",
		DefaultPath(),
		filepath.Join("/etc", "voseflix", "config.toml"),
	}
}

// Discover returns VOSEFLIX_CONFIG when set, which must then exist, or else
// the first existing entry of Candidates.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	candidates := Candidates()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s); run 'voseflix config init' to create one",
		ErrNotFound, strings.Join(candidates, ", "))
}
