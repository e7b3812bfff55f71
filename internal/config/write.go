package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed default_config.toml
var defaultConfig []byte

// ErrExists is returned by WriteDefault when it would replace a file.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes the annotated default config to path, creating parent
// directories. An existing file is left alone unless overwrite is set.
// New files are created with mode 0600.
func WriteDefault(path string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(defaultConfig); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
