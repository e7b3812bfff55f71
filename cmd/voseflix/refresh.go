package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// pollInterval is how often --wait checks the server.
var pollInterval = time.Second

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload movies from the origin site",
	Long: `Ask the server to reload the movie list.

A cached list younger than the configured TTL is reused unless --bypass
is given, which clears every cache first. A newer refresh cancels an
older one still running.

Examples:
  voseflix refresh                 # Start a refresh and return
  voseflix refresh --wait          # Wait for it to finish
  voseflix refresh --bypass --wait # Ignore caches`,
	Args: cobra.NoArgs,
	RunE: runRefreshCmd,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().Bool("bypass", false, "Ignore and clear caches")
	refreshCmd.Flags().Bool("wait", false, "Wait for the refresh to finish")
	refreshCmd.Flags().Duration("timeout", 5*time.Minute, "Maximum time to wait")
}

func runRefreshCmd(cmd *cobra.Command, args []string) error {
	bypass, _ := cmd.Flags().GetBool("bypass")
	wait, _ := cmd.Flags().GetBool("wait")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	client := NewClient(serverURL)
	resp, err := client.Refresh(bypass)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	w := cmd.OutOrStdout()
	if !wait {
		if jsonOutput {
			printJSON(w, resp)
			return nil
		}
		fmt.Fprintf(w, "Refresh started (run %s)\n", resp.RunID)
		return nil
	}

	status, err := waitForRun(client, resp.RunID, timeout, func(s *StatusResponse) {
		if !jsonOutput && s.Total > 0 {
			fmt.Fprintf(w, "  %d/%d movies processed\n", s.Done, s.Total)
		}
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(w, status)
	} else {
		printRefreshResult(w, status)
	}
	if status.LastError != "" {
		return errors.New("refresh failed")
	}
	return nil
}

// waitForRun polls status until runID finishes. It returns early when a
// newer run supersedes it.
func waitForRun(client *Client, runID string, timeout time.Duration, onPoll func(*StatusResponse)) (*StatusResponse, error) {
	deadline := time.Now().Add(timeout)
	lastDone := -1
	for {
		status, err := client.Status()
		if err != nil {
			return nil, fmt.Errorf("status check failed: %w", err)
		}
		if status.RunID != runID {
			return nil, fmt.Errorf("run %s was superseded by %s", runID, status.RunID)
		}
		if !status.Loading {
			return status, nil
		}
		if status.Done != lastDone {
			lastDone = status.Done
			onPoll(status)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out after %s waiting for run %s", timeout, runID)
		}
		time.Sleep(pollInterval)
	}
}

func printRefreshResult(w io.Writer, s *StatusResponse) {
	if s.LastError != "" {
		fmt.Fprintf(w, "Refresh failed: %s\n", s.LastError)
		fmt.Fprintf(w, "Keeping %d movies from the previous refresh\n", s.Movies)
		return
	}
	fmt.Fprintf(w, "Refresh complete: %d movies\n", s.Movies)
	if len(s.Failed) > 0 {
		fmt.Fprintf(w, "Skipped %d movies:\n", len(s.Failed))
		for _, f := range s.Failed {
			fmt.Fprintf(w, "  - %s: %s\n", f.Slug, f.Error)
		}
	}
}
