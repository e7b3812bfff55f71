package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/voseflix/internal/config"
)

var version = "dev"

var (
	serverURL  string
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "voseflix",
	Short: "English-language showtimes in Barcelona",
	Long: `voseflix - English-language (VOSE) movie showtimes in Barcelona

Lists what's on, with ratings and showtimes across cinemas, from a
running voseflixd server. Cache and config commands work locally.

Run 'voseflixd' to start the server daemon.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8686", "Server URL")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("voseflix {{.Version}}\n")
}

// loadConfig loads the --config file, or the discovered one.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path)
}
