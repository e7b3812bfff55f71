package movie

// Filter narrows a movie list the way the browsing preferences do.
// Zero values disable each criterion.
type Filter struct {
	MinScore *float64 // normalized score lower bound; unscored movies fail when set
	Cinemas  []string // cinema slugs; empty means all
	Date     string   // "YYYY-MM-DD"
	From     *int     // minutes after midnight, inclusive
	To       *int     // minutes after midnight, inclusive
	Query    string   // fuzzy title match
}

// filtersShowtimes reports whether any criterion applies to individual showtimes.
func (f Filter) filtersShowtimes() bool {
	return len(f.Cinemas) > 0 || f.Date != "" || f.From != nil || f.To != nil
}

func (f Filter) keepShowtime(s Showtime, cinemas map[string]bool) bool {
	if len(cinemas) > 0 && !cinemas[s.Cinema.Slug] {
		return false
	}
	if f.Date != "" && s.Date != f.Date {
		return false
	}
	if f.From != nil || f.To != nil {
		mins, ok := TimeToMinutes(s.Time)
		if !ok {
			return false
		}
		if f.From != nil && mins < *f.From {
			return false
		}
		if f.To != nil && mins > *f.To {
			return false
		}
	}
	return true
}

// Apply returns the movies passing the filter. Showtimes outside the
// cinema, date or time window are removed and movies left without any
// showtime are dropped. Input order is preserved.
func (f Filter) Apply(movies []Movie) []Movie {
	cinemas := make(map[string]bool, len(f.Cinemas))
	for _, c := range f.Cinemas {
		cinemas[c] = true
	}

	var titles map[string]bool
	if f.Query != "" {
		titles = matchingTitles(f.Query, movies)
	}

	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if f.MinScore != nil {
			score, ok := m.Score()
			if !ok || score < *f.MinScore {
				continue
			}
		}
		if titles != nil && !titles[m.Title] {
			continue
		}
		if f.filtersShowtimes() {
			kept := make([]Showtime, 0, len(m.Showtimes))
			for _, s := range m.Showtimes {
				if f.keepShowtime(s, cinemas) {
					kept = append(kept, s)
				}
			}
			if len(kept) == 0 {
				continue
			}
			m.Showtimes = kept
		}
		out = append(out, m)
	}
	return out
}

// matchingTitles returns the titles that match query with at least low confidence.
func matchingTitles(query string, movies []Movie) map[string]bool {
	out := make(map[string]bool)
	for _, m := range movies {
		if MatchTitle(query, []string{m.Title}).Confidence >= ConfidenceLow || containsWord(m.Title, query) {
			out[m.Title] = true
		}
	}
	return out
}
