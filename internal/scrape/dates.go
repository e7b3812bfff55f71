package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/voseflix/pkg/movie"
)

var (
	// "Wednesday, 10 Jan"
	weekdayDatePattern = regexp.MustCompile(`(?i)(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),?\s*(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`)
	// "10 January 2025", "10 Jan"
	dayMonthPattern = regexp.MustCompile(`(?i)(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\w*\s*(\d{4})?`)
	// Overview column header: "Wed, 17 Dec"
	columnHeaderPattern = regexp.MustCompile(`(\w{3}),?\s*(\d{1,2})\s+(\w{3})`)
)

// rolloverWindow is how far in the past an inferred date may fall before
// it is assumed to belong to next year.
const rolloverWindow = 60 * 24 * time.Hour

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func parseMonth(s string) (time.Month, bool) {
	if len(s) < 3 {
		return 0, false
	}
	m, ok := months[strings.ToLower(s[:3])]
	return m, ok
}

// calendarDate builds a validated date, rejecting overflow such as 31 Feb.
func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// ParseHeadingDate extracts a calendar date from detail page heading text.
//
// Without an explicit year, the current year is assumed unless that puts
// the date more than 60 days before now, in which case next year is used.
func ParseHeadingDate(text string, now time.Time) (string, bool) {
	var dayStr, monthStr, yearStr string
	if m := weekdayDatePattern.FindStringSubmatch(text); m != nil {
		dayStr, monthStr = m[2], m[3]
	} else if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		dayStr, monthStr, yearStr = m[1], m[2], m[3]
	} else {
		return "", false
	}

	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return "", false
	}
	month, ok := parseMonth(monthStr)
	if !ok {
		return "", false
	}

	if yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return "", false
		}
		d, ok := calendarDate(year, month, day, now.Location())
		if !ok {
			return "", false
		}
		return d.Format(movie.DateLayout), true
	}

	d, ok := calendarDate(now.Year(), month, day, now.Location())
	if !ok {
		// 29 Feb outside a leap year may still exist next year.
		d, ok = calendarDate(now.Year()+1, month, day, now.Location())
		if !ok {
			return "", false
		}
		return d.Format(movie.DateLayout), true
	}
	if d.Before(now.Add(-rolloverWindow)) {
		next, ok := calendarDate(now.Year()+1, month, day, now.Location())
		if !ok {
			return "", false
		}
		d = next
	}
	return d.Format(movie.DateLayout), true
}

// ParseColumnDate extracts a calendar date from an overview column header.
//
// The grid only looks a week ahead, so a month earlier than the current one
// means next year, but only when the current month is November or December.
func ParseColumnDate(text string, now time.Time) (string, bool) {
	m := columnHeaderPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return "", false
	}
	month, ok := parseMonth(m[3])
	if !ok {
		return "", false
	}

	year := now.Year()
	if month < now.Month() && now.Month() >= time.November {
		year++
	}
	d, ok := calendarDate(year, month, day, now.Location())
	if !ok {
		return "", false
	}
	return d.Format(movie.DateLayout), true
}

// today formats now's calendar date.
func today(now time.Time) string {
	return now.Format(movie.DateLayout)
}
