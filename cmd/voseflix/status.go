package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show refresh status",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), status)
		return nil
	}
	printStatus(cmd.OutOrStdout(), serverURL, status, time.Now())
	return nil
}

func printStatus(w io.Writer, server string, s *StatusResponse, now time.Time) {
	ver := s.Version
	if ver == "" {
		ver = "unknown"
	}
	fmt.Fprintf(w, "voseflix %s | Server: %s\n\n", ver, server)

	state := "idle"
	if s.Loading {
		state = fmt.Sprintf("loading (%d/%d)", s.Done, s.Total)
	}
	fmt.Fprintf(w, "  State:         %s\n", state)
	fmt.Fprintf(w, "  Movies:        %d\n", s.Movies)

	var completed time.Time
	if s.CompletedAt != nil {
		completed = *s.CompletedAt
	}
	fmt.Fprintf(w, "  Last refresh:  %s\n", formatTimeAgo(completed, now))
	if s.RunID != "" {
		fmt.Fprintf(w, "  Run:           %s\n", s.RunID)
	}

	if s.LastError != "" {
		fmt.Fprintf(w, "\nLast error: %s\n", s.LastError)
	}
	if len(s.Failed) > 0 {
		fmt.Fprintf(w, "\nSkipped movies (%d):\n", len(s.Failed))
		for _, f := range s.Failed {
			fmt.Fprintf(w, "  - %s: %s\n", f.Slug, f.Error)
		}
	}
}
