package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent refresh events",
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	client := NewClient(serverURL)
	events, err := client.Events(limit)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), events)
		return nil
	}
	printEvents(cmd.OutOrStdout(), events, time.Now())
	return nil
}

func printEvents(w io.Writer, events *ListEventsResponse, now time.Time) {
	if len(events.Items) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}

	fmt.Fprintf(w, "Recent Events (%d):\n\n", events.Total)
	fmt.Fprintf(w, "  %-12s %-18s %s\n", "TIME", "TYPE", "RUN")
	fmt.Fprintln(w, rule(68))

	for _, e := range events.Items {
		t, _ := time.Parse(time.RFC3339, e.OccurredAt)
		fmt.Fprintf(w, "  %-12s %-18s %s\n", formatTimeAgo(t, now), e.EventType, e.EntityID)
	}
}
