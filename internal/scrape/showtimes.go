package scrape

import (
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/voseflix/pkg/movie"
)

// dateHeadings are the elements whose text may label a group of showtimes.
var dateHeadings = map[string]bool{"h2": true, "h3": true, "h4": true}

// dateAnchor is a date-labelled heading at a document position.
type dateAnchor struct {
	pos  int
	date string
}

// positionedLink is a booking link at a document position.
type positionedLink struct {
	pos  int
	link BookingLink
}

// ExtractShowtimes lists a detail page's showtimes for slug.
//
// The page is flattened into document order. Headings carrying a date become
// anchors, and each booking link takes the date of the nearest anchor before
// it, or today when none precedes it. Duplicate slots keep the first link.
func (p *Parser) ExtractShowtimes(doc *goquery.Document, slug string) []movie.Showtime {
	now := p.localNow()
	anchors, links := flatten(doc, slug, now)

	cinemas := movie.NewCinemaIndex()
	seen := make(map[movie.ShowtimeKey]bool)
	showtimes := []movie.Showtime{}

	for _, pl := range links {
		date := nearestDate(anchors, pl.pos)
		if date == "" {
			date = today(now)
		}
		key := movie.ShowtimeKey{CinemaSlug: pl.link.CinemaSlug, Date: date, Time: pl.link.Time}
		if seen[key] {
			continue
		}
		seen[key] = true
		showtimes = append(showtimes, p.showtime(pl.link, date, slug, cinemas, DetailNameStrategies))
	}
	return showtimes
}

// flatten walks every element in document order, collecting date anchors
// and this movie's booking links with their positions.
func flatten(doc *goquery.Document, slug string, now time.Time) ([]dateAnchor, []positionedLink) {
	var anchors []dateAnchor
	var links []positionedLink
	moviePath := "/" + slug + "/"

	doc.Find("*").Each(func(pos int, sel *goquery.Selection) {
		switch name := goquery.NodeName(sel); {
		case dateHeadings[name]:
			if date, ok := ParseHeadingDate(cleanText(sel.Text()), now); ok {
				anchors = append(anchors, dateAnchor{pos: pos, date: date})
			}
		case name == "a":
			href, _ := sel.Attr("href")
			if !strings.Contains(href, "/r/") || !strings.Contains(href, moviePath) {
				return
			}
			if link, ok := bookingLinkFromSelection(sel); ok {
				links = append(links, positionedLink{pos: pos, link: link})
			}
		}
	})
	return anchors, links
}

// nearestDate returns the date of the last anchor positioned before pos.
// anchors are in ascending position order.
func nearestDate(anchors []dateAnchor, pos int) string {
	i := sort.Search(len(anchors), func(i int) bool { return anchors[i].pos >= pos })
	if i == 0 {
		return ""
	}
	return anchors[i-1].date
}
