package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

var bookCmd = &cobra.Command{
	Use:   "book <movie-slug> <cinema-slug> <date> <time>",
	Short: "Show how to book a showtime",
	Long: `Resolve a showtime to its booking target.

When the origin knows the showtime's id the target is a form to POST;
otherwise it is the plain booking URL.

Example:
  voseflix book dune-part-two cinesa-diagonal 2025-01-10 18:30`,
	Args: cobra.ExactArgs(4),
	RunE: runBookCmd,
}

func init() {
	rootCmd.AddCommand(bookCmd)
}

func runBookCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	resp, err := client.Book(BookRequest{
		MovieSlug:  args[0],
		CinemaSlug: args[1],
		Date:       args[2],
		Time:       args[3],
	})
	if err != nil {
		return fmt.Errorf("booking lookup failed: %w", err)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), resp)
		return nil
	}
	printBooking(cmd.OutOrStdout(), resp)
	return nil
}

func printBooking(w io.Writer, b *BookResponse) {
	fmt.Fprintf(w, "%s %s\n", b.Method, b.Action)
	for _, k := range slices.Sorted(maps.Keys(b.Fields)) {
		fmt.Fprintf(w, "  %s=%s\n", k, b.Fields[k])
	}
}
