package movie

import (
	"cmp"
	"slices"
)

// CinemaIndex interns cinemas by slug so that every showtime referencing a
// slug carries the same Cinema value. The first value registered wins.
type CinemaIndex struct {
	bySlug map[string]Cinema
}

// NewCinemaIndex creates an empty index.
func NewCinemaIndex() *CinemaIndex {
	return &CinemaIndex{bySlug: make(map[string]Cinema)}
}

// Intern returns the canonical cinema for c's slug, registering c if unseen.
func (ix *CinemaIndex) Intern(c Cinema) Cinema {
	if existing, ok := ix.bySlug[c.Slug]; ok {
		return existing
	}
	ix.bySlug[c.Slug] = c
	return c
}

// Len returns the number of distinct cinemas.
func (ix *CinemaIndex) Len() int {
	return len(ix.bySlug)
}

// Dedupe drops showtimes whose slot was already seen. First occurrence wins
// and order is preserved.
func Dedupe(showtimes []Showtime) []Showtime {
	seen := make(map[ShowtimeKey]bool, len(showtimes))
	out := make([]Showtime, 0, len(showtimes))
	for _, s := range showtimes {
		k := s.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

// Conflict records a slot present in both sources whose showtime ids disagree.
type Conflict struct {
	Key      ShowtimeKey
	Overview Showtime
	Detail   Showtime
}

// Reconcile merges detail-page and overview showtimes for one movie.
//
// Overview showtimes are taken first; detail showtimes fill only slots the
// overview did not cover. Cinemas are canonicalized per slug with overview
// values preferred. The result is ordered by date, time, then cinema slug.
// Slots found in both sources with different non-empty showtime ids are
// reported as conflicts; the overview entry is kept regardless.
func Reconcile(detail, overview []Showtime) ([]Showtime, []Conflict) {
	cinemas := NewCinemaIndex()
	kept := make(map[ShowtimeKey]Showtime, len(overview)+len(detail))
	merged := make([]Showtime, 0, len(overview)+len(detail))
	var conflicts []Conflict

	add := func(s Showtime) {
		s.Cinema = cinemas.Intern(s.Cinema)
		kept[s.Key()] = s
		merged = append(merged, s)
	}

	for _, s := range overview {
		if _, ok := kept[s.Key()]; ok {
			continue
		}
		add(s)
	}
	for _, s := range detail {
		k := s.Key()
		if prev, ok := kept[k]; ok {
			if prev.ShowtimeID != "" && s.ShowtimeID != "" && prev.ShowtimeID != s.ShowtimeID {
				conflicts = append(conflicts, Conflict{Key: k, Overview: prev, Detail: s})
			}
			continue
		}
		add(s)
	}

	SortShowtimes(merged)
	return merged, conflicts
}

// MergeShowtimes is Reconcile without conflict reporting.
func MergeShowtimes(detail, overview []Showtime) []Showtime {
	merged, _ := Reconcile(detail, overview)
	return merged
}

// SortShowtimes orders showtimes in place by date, time and cinema slug.
func SortShowtimes(showtimes []Showtime) {
	slices.SortStableFunc(showtimes, func(a, b Showtime) int {
		return cmp.Or(
			cmp.Compare(a.Date, b.Date),
			cmp.Compare(a.Time, b.Time),
			cmp.Compare(a.Cinema.Slug, b.Cinema.Slug),
		)
	})
}
