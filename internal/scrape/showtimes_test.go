package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/voseflix/pkg/movie"
)

func TestExtractShowtimes_DetailFixture(t *testing.T) {
	p := newTestParser(t, 2025, time.January, 8)

	doc, err := newDocument(loadFixture(t, "detail.html"))
	require.NoError(t, err)

	got := p.ExtractShowtimes(doc, "dune-two")

	verdi := movie.NewCinema("verdi", "Verdi")
	cinesa := movie.NewCinema("cinesa-diagonal-mar", "Cinesa Diagonal Mar")
	yelmo := movie.NewCinema("yelmo-icaria", "Yelmo Icaria")
	base := DefaultBaseURL

	assert.Equal(t, []movie.Showtime{
		{Cinema: verdi, Date: "2025-01-08", Time: "16:00", BookingURL: base + "/r/verdi/dune-two/300", ShowtimeID: "300", MovieSlug: "dune-two"},
		{Cinema: cinesa, Date: "2025-01-10", Time: "18:30", BookingURL: base + "/r/cinesa-diagonal-mar/dune-two/101", ShowtimeID: "101", MovieSlug: "dune-two"},
		{Cinema: yelmo, Date: "2025-01-10", Time: "21:15", BookingURL: base + "/r/yelmo-icaria/dune-two/102", ShowtimeID: "102", MovieSlug: "dune-two"},
		{Cinema: cinesa, Date: "2025-01-11", Time: "09:45", BookingURL: base + "/r/cinesa-diagonal-mar/dune-two/201", ShowtimeID: "201", MovieSlug: "dune-two"},
	}, got)
}

func TestExtractShowtimes_NestedHeadingsApplyInDocumentOrder(t *testing.T) {
	p := newTestParser(t, 2025, time.March, 3)

	html := `<html><body>
		<div><div><h4>Friday, 7 Mar</h4></div></div>
		<table><tr><td><a href="/r/verdi/anora/1">17:00 Verdi</a></td></tr></table>
		<section><h2>Sat, 8 March</h2>
			<p><span><a href="/r/verdi/anora/2">19:00 Verdi</a></span></p>
		</section>
		<a href="/r/verdi/anora/3">22:00 Verdi</a>
	</body></html>`
	doc, err := newDocument(html)
	require.NoError(t, err)

	got := p.ExtractShowtimes(doc, "anora")
	require.Len(t, got, 3)
	assert.Equal(t, "2025-03-07", got[0].Date)
	assert.Equal(t, "2025-03-08", got[1].Date)
	assert.Equal(t, "2025-03-08", got[2].Date)
}

func TestExtractShowtimes_NoHeadingsDefaultsToToday(t *testing.T) {
	// 23:30 UTC is already the next day in Madrid.
	now := time.Date(2025, time.June, 30, 23, 30, 0, 0, time.UTC)
	p := NewParser(NewSite("", madrid(t)), WithClock(func() time.Time { return now }))

	doc, err := newDocument(`<a href="/r/verdi/anora/1">17:00</a>`)
	require.NoError(t, err)

	got := p.ExtractShowtimes(doc, "anora")
	require.Len(t, got, 1)
	assert.Equal(t, "2025-07-01", got[0].Date)
	assert.Equal(t, "Verdi", got[0].Cinema.Name)
}

func TestExtractShowtimes_OptionalShowtimeID(t *testing.T) {
	p := newTestParser(t, 2025, time.January, 8)

	doc, err := newDocument(`<a href="/r/verdi/anora/tickets">17:00</a>`)
	require.NoError(t, err)

	got := p.ExtractShowtimes(doc, "anora")
	require.Len(t, got, 1)
	assert.Empty(t, got[0].ShowtimeID)
}

func TestParseHeadingDate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		now    time.Time
		want   string
		wantOK bool
	}{
		{
			name: "weekday and day month", text: "Wednesday, 10 Jan",
			now: time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC), want: "2025-01-10", wantOK: true,
		},
		{
			name: "next year when far in the past", text: "15 Jan",
			now: time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC), want: "2025-01-15", wantOK: true,
		},
		{
			name: "recent past stays in current year", text: "Monday, 16 Dec",
			now: time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC), want: "2024-12-16", wantOK: true,
		},
		{
			name: "explicit year honored", text: "10 January 2023",
			now: time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC), want: "2023-01-10", wantOK: true,
		},
		{
			name: "leap day resolves to next leap year", text: "29 Feb",
			now: time.Date(2023, 12, 1, 12, 0, 0, 0, time.UTC), want: "2024-02-29", wantOK: true,
		},
		{
			name: "impossible date", text: "31 Feb 2025",
			now: time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "no date", text: "Showtimes",
			now: time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHeadingDate(tt.text, tt.now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBookingLink(t *testing.T) {
	link, ok := ParseBookingLink("/r/cinesa-la-maquinista/dune-two/4242", " 9:05 Cinesa ", "9:05 at Cinesa La Maquinista")
	require.True(t, ok)
	assert.Equal(t, "09:05", link.Time)
	assert.Equal(t, "9:05", link.TimeToken)
	assert.Equal(t, "cinesa-la-maquinista", link.CinemaSlug)
	assert.Equal(t, "4242", link.ShowtimeID)

	assert.Equal(t, "Cinesa", ResolveCinemaName(link, DetailNameStrategies))
	assert.Equal(t, "Cinesa La Maquinista", ResolveCinemaName(link, OverviewNameStrategies))

	_, ok = ParseBookingLink("/r/cinesa/dune-two/1", "Buy tickets", "")
	assert.False(t, ok, "no time")

	_, ok = ParseBookingLink("/r/cinesa/dune-two/1", "25:00", "")
	assert.False(t, ok, "invalid time")

	_, ok = ParseBookingLink("/booking/1", "18:00", "")
	assert.False(t, ok, "no cinema segment")
}

func TestResolveCinemaName_FallsBackToSlug(t *testing.T) {
	link := BookingLink{CinemaSlug: "yelmo-icaria", Text: "**21:15**", TimeToken: "21:15"}
	assert.Equal(t, "Yelmo Icaria", ResolveCinemaName(link, DetailNameStrategies))
	assert.Equal(t, "Yelmo Icaria", ResolveCinemaName(link, OverviewNameStrategies))
}
