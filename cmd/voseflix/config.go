package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/voseflix/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, settings, and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

// configArg picks the path argument, then --config, then discovery.
func configArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if configPath != "" {
		return configPath, nil
	}
	return config.Discover()
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path, err := configArg(args)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			printConfigErrors(w, configErr)
			return errors.New("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(w, cfg)
	if warns := cfg.Warnings(); len(warns) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range warns {
			fmt.Fprintf(w, "  - %s\n", warn)
		}
	}
	fmt.Fprintln(w, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.Error) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Server:     %s (log: %s)\n", cfg.Addr(), cfg.Log.Level)
	fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)

	relay := cfg.Relay()
	if relay == "" {
		relay = "direct"
	}
	fmt.Fprintf(w, "  Origin:     %s via %s (%s)\n", cfg.Origin.BaseURL, relay, cfg.Origin.Timezone)

	refresh := "manual"
	if cfg.Server.RefreshInterval > 0 {
		refresh = "every " + cfg.Server.RefreshInterval.String()
	}
	fmt.Fprintf(w, "  Refresh:    %s (cache %s)\n", refresh, cfg.Pipeline.MoviesTTL)

	var enrichers []string
	if cfg.OMDb.APIKey != "" {
		enrichers = append(enrichers, "omdb")
	}
	if cfg.TMDB.APIKey != "" {
		enrichers = append(enrichers, "tmdb")
	}
	if len(enrichers) > 0 {
		fmt.Fprintf(w, "  Enrichers:  %s\n", strings.Join(enrichers, ", "))
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if err := config.WriteDefault(path, force); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
