package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/voseflix/pkg/movie"
)

var (
	timePattern       = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	cinemaSlugPattern = regexp.MustCompile(`/r/([^/]+)/`)
	showtimeIDPattern = regexp.MustCompile(`/(\d+)/?$`)
	tooltipPattern    = regexp.MustCompile(`at\s+(.+)$`)
)

// BookingLink is a parsed booking-redirect anchor: /r/{cinema}/{movie}/{id}.
type BookingLink struct {
	Href       string
	Text       string // visible text, trimmed
	Title      string // tooltip attribute
	Time       string // "HH:MM"
	TimeToken  string // the time as written in Text
	CinemaSlug string
	ShowtimeID string // empty when the href has no numeric tail
}

// ParseBookingLink extracts time, cinema slug and showtime id from an anchor.
// Links without a time in their text or without a cinema segment are rejected.
func ParseBookingLink(href, text, title string) (BookingLink, bool) {
	link := BookingLink{
		Href:  href,
		Text:  strings.TrimSpace(text),
		Title: strings.TrimSpace(title),
	}

	tm := timePattern.FindStringSubmatch(link.Text)
	if tm == nil {
		return BookingLink{}, false
	}
	hours, _ := strconv.Atoi(tm[1])
	mins, _ := strconv.Atoi(tm[2])
	if hours > 23 || mins > 59 {
		return BookingLink{}, false
	}
	link.Time = fmt.Sprintf("%02d:%02d", hours, mins)
	link.TimeToken = tm[0]

	cm := cinemaSlugPattern.FindStringSubmatch(href)
	if cm == nil {
		return BookingLink{}, false
	}
	link.CinemaSlug = cm[1]

	if im := showtimeIDPattern.FindStringSubmatch(href); im != nil {
		link.ShowtimeID = im[1]
	}
	return link, true
}

func bookingLinkFromSelection(sel *goquery.Selection) (BookingLink, bool) {
	href, _ := sel.Attr("href")
	title, _ := sel.Attr("title")
	return ParseBookingLink(href, sel.Text(), title)
}

// NameStrategy derives a cinema display name from a booking link.
// It returns "" when it has nothing to offer.
type NameStrategy func(BookingLink) string

// LinkTextName is the link text left after removing the time and "**" markers.
func LinkTextName(l BookingLink) string {
	name := strings.Replace(l.Text, l.TimeToken, "", 1)
	name = strings.ReplaceAll(name, "**", "")
	return cleanText(name)
}

// TooltipName is the text following "at " in the link tooltip,
// e.g. "11:45 at Yelmo Westfield La Maquinista".
func TooltipName(l BookingLink) string {
	m := tooltipPattern.FindStringSubmatch(l.Title)
	if m == nil {
		return ""
	}
	return cleanText(m[1])
}

// SlugName title-cases the cinema slug.
func SlugName(l BookingLink) string {
	return movie.TitleCaseSlug(l.CinemaSlug)
}

// Name resolution orders for the two page shapes.
var (
	DetailNameStrategies   = []NameStrategy{LinkTextName, SlugName}
	OverviewNameStrategies = []NameStrategy{TooltipName, SlugName}
)

// ResolveCinemaName returns the first non-empty name produced by strategies.
func ResolveCinemaName(l BookingLink, strategies []NameStrategy) string {
	for _, s := range strategies {
		if name := s(l); name != "" {
			return name
		}
	}
	return ""
}

// showtime builds a Showtime from a parsed link, interning its cinema.
func (p *Parser) showtime(l BookingLink, date, movieSlug string, cinemas *movie.CinemaIndex, strategies []NameStrategy) movie.Showtime {
	cinema := cinemas.Intern(movie.NewCinema(l.CinemaSlug, ResolveCinemaName(l, strategies)))
	return movie.Showtime{
		Cinema:     cinema,
		Date:       date,
		Time:       l.Time,
		BookingURL: p.site.Absolute(l.Href),
		ShowtimeID: l.ShowtimeID,
		MovieSlug:  movieSlug,
	}
}
