package movie

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by Showtime.Date.
const DateLayout = "2006-01-02"

// TimeToMinutes converts "HH:MM" to minutes after midnight.
func TimeToMinutes(clock string) (int, bool) {
	h, m, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}

// FormatDuration renders minutes as "H:MM".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// FormatDateLabel renders a showtime date relative to now:
// "Today", "Tomorrow", or e.g. "Wed, Jan 10".
func FormatDateLabel(date string, now time.Time) string {
	d, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return d.Format("Mon, Jan 2")
	}
}

// CinemaShowtimes groups one cinema's showtimes.
type CinemaShowtimes struct {
	Cinema    Cinema     `json:"cinema"`
	Showtimes []Showtime `json:"showtimes"`
}

// GroupByCinema groups showtimes per cinema, cinemas ordered by name and
// each group's showtimes ordered by time.
func GroupByCinema(showtimes []Showtime) []CinemaShowtimes {
	index := make(map[string]int)
	var groups []CinemaShowtimes
	for _, s := range showtimes {
		i, ok := index[s.Cinema.ID]
		if !ok {
			i = len(groups)
			index[s.Cinema.ID] = i
			groups = append(groups, CinemaShowtimes{Cinema: s.Cinema})
		}
		groups[i].Showtimes = append(groups[i].Showtimes, s)
	}

	slices.SortStableFunc(groups, func(a, b CinemaShowtimes) int {
		return cmp.Compare(strings.ToLower(a.Cinema.Name), strings.ToLower(b.Cinema.Name))
	})
	for _, g := range groups {
		slices.SortStableFunc(g.Showtimes, func(a, b Showtime) int {
			return cmp.Compare(a.Time, b.Time)
		})
	}
	return groups
}

// Dates returns the distinct showtime dates across movies, ascending.
func Dates(movies []Movie) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, m := range movies {
		for _, s := range m.Showtimes {
			if !seen[s.Date] {
				seen[s.Date] = true
				dates = append(dates, s.Date)
			}
		}
	}
	slices.Sort(dates)
	return dates
}

// Cinemas returns the distinct cinemas across movies, ordered by name.
func Cinemas(movies []Movie) []Cinema {
	seen := make(map[string]bool)
	var cinemas []Cinema
	for _, m := range movies {
		for _, s := range m.Showtimes {
			if !seen[s.Cinema.Slug] {
				seen[s.Cinema.Slug] = true
				cinemas = append(cinemas, s.Cinema)
			}
		}
	}
	slices.SortFunc(cinemas, func(a, b Cinema) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(a.Slug, b.Slug),
		)
	})
	return cinemas
}
