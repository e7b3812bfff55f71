package scrape

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/voseflix/pkg/movie"
)

var overviewSlugPattern = regexp.MustCompile(`/m/([^/]+)/`)

// ParseOverview parses the 7-day grid into showtimes keyed by movie slug.
//
// Column dates come from the header row. A header that cannot be parsed
// leaves its column without a date, so that column's showtimes are skipped
// while the remaining columns stay aligned. Movies without any showtime are
// absent from the result.
func (p *Parser) ParseOverview(html string) (map[string][]movie.Showtime, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, fmt.Errorf("parse overview: %w", err)
	}

	now := p.localNow()
	var dates []string
	doc.Find("thead th.table-header").Each(func(i int, th *goquery.Selection) {
		if i == 0 {
			return
		}
		date, _ := ParseColumnDate(cleanText(th.Text()), now)
		dates = append(dates, date)
	})

	cinemas := movie.NewCinemaIndex()
	result := make(map[string][]movie.Showtime)

	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		href, _ := cells.First().Find(`a[href*="/m/"]`).First().Attr("href")
		sm := overviewSlugPattern.FindStringSubmatch(href)
		if sm == nil {
			return
		}
		slug := sm[1]

		seen := make(map[movie.ShowtimeKey]bool)
		var showtimes []movie.Showtime

		cells.Each(func(col int, cell *goquery.Selection) {
			if col == 0 || col-1 >= len(dates) {
				return
			}
			date := dates[col-1]
			if date == "" {
				return
			}
			cell.Find(`a[href*="/r/"]`).Each(func(_ int, a *goquery.Selection) {
				link, ok := bookingLinkFromSelection(a)
				if !ok {
					return
				}
				key := movie.ShowtimeKey{CinemaSlug: link.CinemaSlug, Date: date, Time: link.Time}
				if seen[key] {
					return
				}
				seen[key] = true
				showtimes = append(showtimes, p.showtime(link, date, slug, cinemas, OverviewNameStrategies))
			})
		})

		if len(showtimes) > 0 {
			result[slug] = append(result[slug], showtimes...)
		}
	})

	return result, nil
}
