package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
)

var showtimesCmd = &cobra.Command{
	Use:   "showtimes [slug]",
	Short: "List showtimes in date order",
	Long: `List showtimes across all movies, or one movie, ordered by date and time.

Examples:
  voseflix showtimes --date 2025-01-10      # Everything on one day
  voseflix showtimes dune-part-two          # One movie
  voseflix showtimes --cinema verdi --from 20:00`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShowtimesCmd,
}

func init() {
	rootCmd.AddCommand(showtimesCmd)
	addFilterFlags(showtimesCmd)
}

// showtimeRow is one screening flattened out of its movie.
type showtimeRow struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Cinema     string `json:"cinema"`
	Movie      string `json:"movie"`
	MovieSlug  string `json:"movie_slug"`
	BookingURL string `json:"booking_url"`
}

func flattenShowtimes(movies []MovieResponse, slug string) []showtimeRow {
	var rows []showtimeRow
	for _, m := range movies {
		if slug != "" && m.Slug != slug {
			continue
		}
		for _, st := range m.Showtimes {
			rows = append(rows, showtimeRow{
				Date:       st.Date,
				Time:       st.Time,
				Cinema:     st.Cinema.Name,
				Movie:      m.Title,
				MovieSlug:  m.Slug,
				BookingURL: st.BookingURL,
			})
		}
	}
	slices.SortStableFunc(rows, func(a, b showtimeRow) int {
		return cmp.Or(
			cmp.Compare(a.Date, b.Date),
			cmp.Compare(a.Time, b.Time),
			cmp.Compare(a.Movie, b.Movie),
		)
	})
	return rows
}

func runShowtimesCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	resp, err := client.Movies(filterFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to fetch showtimes: %w", err)
	}

	var slug string
	if len(args) > 0 {
		slug = args[0]
	}
	rows := flattenShowtimes(resp.Items, slug)

	if jsonOutput {
		if rows == nil {
			rows = []showtimeRow{}
		}
		printJSON(cmd.OutOrStdout(), rows)
		return nil
	}
	printShowtimes(cmd.OutOrStdout(), rows)
	return nil
}

func printShowtimes(w io.Writer, rows []showtimeRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No showtimes found")
		return
	}

	fmt.Fprintf(w, "Showtimes (%d):\n\n", len(rows))
	fmt.Fprintf(w, "  %-10s %-5s %-28s %s\n", "DATE", "TIME", "CINEMA", "MOVIE")
	fmt.Fprintln(w, rule(80))

	lastDate := ""
	for _, r := range rows {
		date := r.Date
		if date == lastDate {
			date = ""
		}
		lastDate = r.Date
		fmt.Fprintf(w, "  %-10s %-5s %-28s %s\n", date, r.Time, truncate(r.Cinema, 28), r.Movie)
	}
}
