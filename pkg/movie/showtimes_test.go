package movie

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"00:00", 0, true},
		{"19:30", 1170, true},
		{"9:05", 545, true},
		{"24:00", 0, false},
		{"nope", 0, false},
		{"12:xx", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := TimeToMinutes(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2:46", FormatDuration(166))
	assert.Equal(t, "1:05", FormatDuration(65))
	assert.Equal(t, "0:00", FormatDuration(0))
}

func TestFormatDateLabel(t *testing.T) {
	now := time.Date(2024, time.January, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", FormatDateLabel("2024-01-10", now))
	assert.Equal(t, "Tomorrow", FormatDateLabel("2024-01-11", now))
	assert.Equal(t, "Fri, Jan 12", FormatDateLabel("2024-01-12", now))
	assert.Equal(t, "garbage", FormatDateLabel("garbage", now))
}

func TestGroupByCinema(t *testing.T) {
	showtimes := []Showtime{
		show("zumzeig", "2024-01-10", "21:00", ""),
		show("verdi", "2024-01-10", "22:00", ""),
		show("zumzeig", "2024-01-10", "18:00", ""),
		show("verdi", "2024-01-10", "16:30", ""),
	}

	groups := GroupByCinema(showtimes)

	require.Len(t, groups, 2)
	assert.Equal(t, "verdi", groups[0].Cinema.Slug)
	assert.Equal(t, "16:30", groups[0].Showtimes[0].Time)
	assert.Equal(t, "22:00", groups[0].Showtimes[1].Time)
	assert.Equal(t, "zumzeig", groups[1].Cinema.Slug)
	assert.Equal(t, "18:00", groups[1].Showtimes[0].Time)
}

func TestDatesAndCinemas(t *testing.T) {
	movies := []Movie{
		{Showtimes: []Showtime{show("verdi", "2024-01-11", "19:00", ""), show("zumzeig", "2024-01-10", "19:00", "")}},
		{Showtimes: []Showtime{show("verdi", "2024-01-10", "21:00", "")}},
	}

	assert.Equal(t, []string{"2024-01-10", "2024-01-11"}, Dates(movies))

	cinemas := Cinemas(movies)
	require.Len(t, cinemas, 2)
	assert.Equal(t, "Verdi", cinemas[0].Name)
	assert.Equal(t, "Zumzeig", cinemas[1].Name)
}
