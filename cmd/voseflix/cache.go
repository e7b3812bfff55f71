package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/voseflix/internal/config"
	"github.com/vmunix/voseflix/internal/events"
	"github.com/vmunix/voseflix/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local cache database",
	Long: `Manage the HTML, ratings and movie caches in the configured database.

These commands open the database directly; no server is needed.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return clearCaches(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired entries and old events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		olderThan, _ := cmd.Flags().GetDuration("events-older-than")
		return pruneCaches(cmd.Context(), cmd.OutOrStdout(), cfg, olderThan)
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count cached entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cacheStats(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cachePruneCmd.Flags().Duration("events-older-than", 30*24*time.Hour, "Also delete events older than this (0 keeps all)")
}

func clearCaches(ctx context.Context, w io.Writer, cfg *config.Config) error {
	db, err := store.OpenDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.NewSQLiteCaches(db).ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintf(w, "Cleared caches in %s\n", cfg.Database.Path)
	return nil
}

func pruneCaches(ctx context.Context, w io.Writer, cfg *config.Config, eventsOlderThan time.Duration) error {
	db, err := store.OpenDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	n, err := store.NewSQLiteCaches(db).PruneAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Pruned %d expired cache entries\n", n)

	if eventsOlderThan > 0 {
		removed, err := events.NewEventLog(db).Prune(ctx, eventsOlderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Pruned %d events older than %s\n", removed, eventsOlderThan)
	}
	return nil
}

func cacheStats(ctx context.Context, w io.Writer, cfg *config.Config) error {
	db, err := store.OpenDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var all []store.Stats
	for _, ns := range []string{store.NamespaceHTML, store.NamespaceRatings, store.NamespaceMovies} {
		st, err := store.NewSQLite(db, ns).Stats(ctx)
		if err != nil {
			return err
		}
		all = append(all, st)
	}

	if jsonOutput {
		printJSON(w, all)
		return nil
	}
	fmt.Fprintf(w, "  %-10s %8s %8s\n", "CACHE", "ENTRIES", "EXPIRED")
	fmt.Fprintln(w, rule(28))
	for _, st := range all {
		fmt.Fprintf(w, "  %-10s %8d %8d\n", st.Namespace, st.Entries, st.Expired)
	}
	return nil
}
