package movie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func show(cinema, date, clock, url string) Showtime {
	return Showtime{
		Cinema:     NewCinema(cinema, TitleCaseSlug(cinema)),
		Date:       date,
		Time:       clock,
		BookingURL: url,
	}
}

func TestDedupe_FirstWins(t *testing.T) {
	in := []Showtime{
		show("verdi", "2024-01-10", "19:00", "first"),
		show("verdi", "2024-01-10", "19:00", "second"),
		show("verdi", "2024-01-10", "21:00", "third"),
	}

	out := Dedupe(in)

	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].BookingURL)
	assert.Equal(t, "third", out[1].BookingURL)
}

func TestMergeShowtimes_OverviewWins(t *testing.T) {
	detail := []Showtime{show("cinema-a", "2024-01-10", "19:00", "detail-url")}
	overview := []Showtime{show("cinema-a", "2024-01-10", "19:00", "overview-url")}

	merged := MergeShowtimes(detail, overview)

	require.Len(t, merged, 1)
	assert.Equal(t, "overview-url", merged[0].BookingURL)
}

func TestMergeShowtimes_UnionSortedByDateTime(t *testing.T) {
	detail := []Showtime{show("cinema-a", "2024-01-10", "19:00", "d1")}
	overview := []Showtime{
		show("cinema-b", "2024-01-11", "21:30", "o2"),
		show("cinema-a", "2024-01-10", "19:00", "o1"),
	}

	merged := MergeShowtimes(detail, overview)

	require.Len(t, merged, 2)
	assert.Equal(t, "o1", merged[0].BookingURL)
	assert.Equal(t, "2024-01-10", merged[0].Date)
	assert.Equal(t, "o2", merged[1].BookingURL)
}

func TestMergeShowtimes_DetailFillsGaps(t *testing.T) {
	detail := []Showtime{
		show("cinema-a", "2024-01-10", "16:00", "d1"),
		show("cinema-a", "2024-01-10", "19:00", "d2"),
	}
	overview := []Showtime{show("cinema-a", "2024-01-10", "19:00", "o1")}

	merged := MergeShowtimes(detail, overview)

	require.Len(t, merged, 2)
	assert.Equal(t, "d1", merged[0].BookingURL)
	assert.Equal(t, "o1", merged[1].BookingURL)
}

func TestMergeShowtimes_CanonicalCinemaPerSlug(t *testing.T) {
	d := show("verdi", "2024-01-12", "18:00", "d")
	d.Cinema.Name = "verdi **"
	o := show("verdi", "2024-01-10", "19:00", "o")
	o.Cinema.Name = "Cines Verdi"

	merged := MergeShowtimes([]Showtime{d}, []Showtime{o})

	require.Len(t, merged, 2)
	for _, s := range merged {
		assert.Equal(t, "Cines Verdi", s.Cinema.Name)
	}
}

func TestMergeShowtimes_OrderIndependent(t *testing.T) {
	a := show("cinema-a", "2024-01-10", "19:00", "a")
	b := show("cinema-b", "2024-01-10", "19:00", "b")
	c := show("cinema-a", "2024-01-09", "22:00", "c")

	first := MergeShowtimes([]Showtime{a, c}, []Showtime{b})
	second := MergeShowtimes([]Showtime{c, a}, []Showtime{b})

	assert.Equal(t, first, second)
}

func TestReconcile_ReportsConflictingIDs(t *testing.T) {
	d := show("cinema-a", "2024-01-10", "19:00", "d")
	d.ShowtimeID = "111"
	o := show("cinema-a", "2024-01-10", "19:00", "o")
	o.ShowtimeID = "222"

	merged, conflicts := Reconcile([]Showtime{d}, []Showtime{o})

	require.Len(t, merged, 1)
	assert.Equal(t, "222", merged[0].ShowtimeID)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "111", conflicts[0].Detail.ShowtimeID)
}

func TestReconcile_URLDifferenceIsNotConflict(t *testing.T) {
	d := show("cinema-a", "2024-01-10", "19:00", "d")
	o := show("cinema-a", "2024-01-10", "19:00", "o")

	_, conflicts := Reconcile([]Showtime{d}, []Showtime{o})

	assert.Empty(t, conflicts)
}

func TestCinemaIndex_Intern(t *testing.T) {
	ix := NewCinemaIndex()

	first := ix.Intern(NewCinema("verdi", "Verdi"))
	second := ix.Intern(NewCinema("verdi", "Other"))

	assert.Equal(t, first, second)
	assert.Equal(t, 1, ix.Len())
}
