package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cinemasCmd = &cobra.Command{
	Use:   "cinemas",
	Short: "List cinemas with English showtimes",
	Args:  cobra.NoArgs,
	RunE:  runCinemasCmd,
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List dates with showtimes",
	Args:  cobra.NoArgs,
	RunE:  runDatesCmd,
}

func init() {
	rootCmd.AddCommand(cinemasCmd)
	rootCmd.AddCommand(datesCmd)
}

func runCinemasCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	cinemas, err := client.Cinemas()
	if err != nil {
		return fmt.Errorf("failed to fetch cinemas: %w", err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(w, cinemas)
		return nil
	}
	if len(cinemas) == 0 {
		fmt.Fprintln(w, "No cinemas")
		return nil
	}

	fmt.Fprintf(w, "Cinemas (%d):\n\n", len(cinemas))
	fmt.Fprintf(w, "  %-32s %s\n", "NAME", "SLUG")
	fmt.Fprintln(w, rule(60))
	for _, c := range cinemas {
		fmt.Fprintf(w, "  %-32s %s\n", truncate(c.Name, 32), c.Slug)
	}
	return nil
}

func runDatesCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	dates, err := client.Dates()
	if err != nil {
		return fmt.Errorf("failed to fetch dates: %w", err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(w, dates)
		return nil
	}
	if len(dates) == 0 {
		fmt.Fprintln(w, "No showtimes")
		return nil
	}
	for _, d := range dates {
		fmt.Fprintf(w, "  %s  %s\n", d.Date, d.Label)
	}
	return nil
}
