package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "List movies with English showtimes",
	Long: `List movies, best first within each release year.

Filters apply to showtimes; a movie with no matching showtimes is hidden.

Examples:
  voseflix movies                        # Everything showing
  voseflix movies --min-score 70         # Well-reviewed only
  voseflix movies --cinema cinesa-diagonal --date 2025-01-10
  voseflix movies --from 18:00 -q dune`,
	Args: cobra.NoArgs,
	RunE: runMoviesCmd,
}

var movieCmd = &cobra.Command{
	Use:   "movie <slug>",
	Short: "Show a movie's details and showtimes",
	Args:  cobra.ExactArgs(1),
	RunE:  runMovieCmd,
}

func init() {
	rootCmd.AddCommand(moviesCmd)
	rootCmd.AddCommand(movieCmd)
	addFilterFlags(moviesCmd)
	moviesCmd.Flags().Float64("min-score", 0, "Minimum normalized score (0-100)")
	moviesCmd.Flags().StringP("query", "q", "", "Fuzzy title search")
}

// addFilterFlags registers the showtime filters shared by movies and showtimes.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("cinema", "c", nil, "Cinema slug (repeatable)")
	cmd.Flags().StringP("date", "d", "", "Date (YYYY-MM-DD)")
	cmd.Flags().String("from", "", "Earliest showtime (HH:MM)")
	cmd.Flags().String("to", "", "Latest showtime (HH:MM)")
}

func filterFromFlags(cmd *cobra.Command) MovieFilter {
	var f MovieFilter
	f.Cinemas, _ = cmd.Flags().GetStringSlice("cinema")
	f.Date, _ = cmd.Flags().GetString("date")
	f.From, _ = cmd.Flags().GetString("from")
	f.To, _ = cmd.Flags().GetString("to")
	if cmd.Flags().Changed("min-score") {
		score, _ := cmd.Flags().GetFloat64("min-score")
		f.MinScore = &score
	}
	if cmd.Flags().Lookup("query") != nil {
		f.Query, _ = cmd.Flags().GetString("query")
	}
	return f
}

func runMoviesCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	resp, err := client.Movies(filterFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to fetch movies: %w", err)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), resp)
		return nil
	}
	printMovies(cmd.OutOrStdout(), resp)
	return nil
}

func printMovies(w io.Writer, resp *ListMoviesResponse) {
	if len(resp.Items) == 0 {
		if resp.Loading {
			fmt.Fprintln(w, "No movies yet (loading...)")
		} else {
			fmt.Fprintln(w, "No movies found")
		}
		return
	}

	header := fmt.Sprintf("Movies (%d)", resp.Total)
	if resp.Loading {
		header += " - still loading"
	}
	fmt.Fprintf(w, "%s:\n\n", header)
	fmt.Fprintf(w, "  %-40s %-5s %-5s %-8s %s\n", "TITLE", "YEAR", "SCORE", "LENGTH", "SHOWS")
	fmt.Fprintln(w, rule(68))

	for _, m := range resp.Items {
		length := m.DurationLabel
		if length == "" {
			length = "-"
		}
		fmt.Fprintf(w, "  %-40s %-5s %-5s %-8s %d\n",
			truncate(m.Title, 40), formatYear(m.Year), formatScore(m.Score), length, len(m.Showtimes))
	}
}

func runMovieCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	m, err := client.Movie(args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch movie: %w", err)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), m)
		return nil
	}
	printMovie(cmd.OutOrStdout(), m)
	return nil
}

func printMovie(w io.Writer, m *MovieResponse) {
	title := m.Title
	if m.Year > 0 {
		title = fmt.Sprintf("%s (%d)", m.Title, m.Year)
	}
	fmt.Fprintln(w, title)

	var facts []string
	if m.DurationLabel != "" {
		facts = append(facts, m.DurationLabel)
	}
	if len(m.Genres) > 0 {
		facts = append(facts, strings.Join(m.Genres, ", "))
	}
	if m.MPAARating != "" {
		facts = append(facts, m.MPAARating)
	}
	if len(facts) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(facts, " | "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-11s %s\n", "Score:", formatScore(m.Score))
	r := m.Ratings
	if r.RottenTomatoes != nil {
		fmt.Fprintf(w, "  %-11s %d%%\n", "RT:", r.RottenTomatoes.Critics)
	}
	if r.Metacritic != nil {
		fmt.Fprintf(w, "  %-11s %d\n", "Metacritic:", *r.Metacritic)
	}
	if r.IMDB != nil {
		fmt.Fprintf(w, "  %-11s %.1f (%d votes)\n", "IMDB:", r.IMDB.Score, r.IMDB.Votes)
	}
	if m.Director != "" {
		fmt.Fprintf(w, "  %-11s %s\n", "Director:", m.Director)
	}
	if m.Actors != "" {
		fmt.Fprintf(w, "  %-11s %s\n", "Cast:", m.Actors)
	}
	if m.TrailerKey != "" {
		fmt.Fprintf(w, "  %-11s %s\n", "Trailer:", youtubeURL(m.TrailerKey))
	}
	if m.Plot != "" {
		fmt.Fprintf(w, "\n  %s\n", m.Plot)
	}

	if len(m.ByCinema) == 0 {
		fmt.Fprintln(w, "\nNo showtimes")
		return
	}
	fmt.Fprintln(w, "\nShowtimes:")
	for _, g := range m.ByCinema {
		fmt.Fprintf(w, "\n  %s\n", g.Cinema.Name)
		for _, st := range g.Showtimes {
			fmt.Fprintf(w, "    %s %s  %s\n", st.Date, st.Time, st.BookingURL)
		}
	}
}
