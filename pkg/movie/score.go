package movie

import (
	"cmp"
	"slices"
)

// NormalizedScore averages the known ratings on a 0-100 scale.
// Rotten Tomatoes and Metacritic are used as is, IMDB is scaled by 10.
// Returns false when no rating is known.
func NormalizedScore(r Ratings) (float64, bool) {
	var scores []float64
	if r.RottenTomatoes != nil {
		scores = append(scores, float64(r.RottenTomatoes.Critics))
	}
	if r.Metacritic != nil {
		scores = append(scores, float64(*r.Metacritic))
	}
	if r.IMDB != nil {
		scores = append(scores, r.IMDB.Score*10)
	}
	if len(scores) == 0 {
		return 0, false
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), true
}

// sortScore is the comparable score used for ordering; unscored movies rank below zero.
func sortScore(m Movie) float64 {
	if s, ok := m.Score(); ok {
		return s
	}
	return -1
}

// Sort returns a copy of movies ordered by year (newest first, unknown last)
// then by normalized score (highest first, unscored last). Ties keep input order.
func Sort(movies []Movie) []Movie {
	sorted := slices.Clone(movies)
	slices.SortStableFunc(sorted, func(a, b Movie) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return cmp.Compare(sortScore(b), sortScore(a))
	})
	return sorted
}
