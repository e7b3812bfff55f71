package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/voseflix/pkg/movie"
)

var (
	detailDurationPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes|mins|m)\b`)
	rottenTomatoesPattern = regexp.MustCompile(`(?i)Rotten\s*Tomatoes[:\s]*(\d+)%`)
	metacriticPattern     = regexp.MustCompile(`(?i)Metacritic[:\s]*(\d+)(?:/100)?`)
)

// ParseDetail parses a movie detail page. It reports false when the page
// has no <h1> title, which means it is not a movie page.
func (p *Parser) ParseDetail(slug, html string) (movie.Movie, bool) {
	doc, err := newDocument(html)
	if err != nil {
		return movie.Movie{}, false
	}

	title := cleanText(doc.Find("h1").First().Text())
	if title == "" {
		return movie.Movie{}, false
	}

	bodyText := doc.Find("body").Text()

	m := movie.Movie{
		ID:        slug,
		Title:     title,
		Slug:      slug,
		PosterURL: ResolvePoster(doc, p.PosterStrategies()),
		Genres:    parseGenres(doc),
		Ratings:   ParseRatings(bodyText),
		Showtimes: p.ExtractShowtimes(doc, slug),
	}
	if dm := detailDurationPattern.FindStringSubmatch(bodyText); dm != nil {
		m.Duration, _ = strconv.Atoi(dm[1])
	}
	return m, true
}

func parseGenres(doc *goquery.Document) []string {
	genres := []string{}
	seen := make(map[string]bool)
	doc.Find(`a[href*="/genre/"]`).Each(func(_ int, a *goquery.Selection) {
		g := cleanText(a.Text())
		if g == "" || seen[g] {
			return
		}
		seen[g] = true
		genres = append(genres, g)
	})
	return genres
}

// ParseRatings finds Rotten Tomatoes ("NN%") and Metacritic ("NN" or
// "NN/100") scores in page text. Either may be absent.
func ParseRatings(text string) movie.Ratings {
	var r movie.Ratings
	if m := rottenTomatoesPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v <= 100 {
			r.RottenTomatoes = &movie.RottenTomatoes{Critics: v}
		}
	}
	if m := metacriticPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v <= 100 {
			r.Metacritic = &v
		}
	}
	return r
}

// PosterStrategy proposes a poster URL from a page, or "" when it finds none.
type PosterStrategy func(*goquery.Document) string

// PosterStrategies is the poster resolution order: the site's own CDN,
// then known poster sources, then any absolute image.
func (p *Parser) PosterStrategies() []PosterStrategy {
	return []PosterStrategy{
		firstImage(`img[src*="` + p.site.CDNHost + `"]`),
		firstImage(`img[src*="tmdb"], img[src*="poster"]`),
		absoluteImage,
	}
}

// ResolvePoster returns the first non-empty URL produced by strategies.
func ResolvePoster(doc *goquery.Document, strategies []PosterStrategy) string {
	for _, s := range strategies {
		if src := s(doc); src != "" {
			return src
		}
	}
	return ""
}

func firstImage(selector string) PosterStrategy {
	return func(doc *goquery.Document) string {
		src, _ := doc.Find(selector).First().Attr("src")
		return strings.TrimSpace(src)
	}
}

func absoluteImage(doc *goquery.Document) string {
	var found string
	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if strings.Contains(src, "http") {
			found = strings.TrimSpace(src)
			return false
		}
		return true
	})
	return found
}
