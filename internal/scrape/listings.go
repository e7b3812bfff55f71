package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/voseflix/pkg/movie"
)

// maxTitleLength rejects anchors whose text is clearly not a title.
const maxTitleLength = 100

// "195m", "120 min"
var listingDurationPattern = regexp.MustCompile(`(?i)(\d+)\s*m(?:in)?`)

// ParseListings extracts movie stubs from the homepage, in document order,
// de-duplicated by slug.
func (p *Parser) ParseListings(html string) ([]movie.Listing, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, fmt.Errorf("parse listings: %w", err)
	}

	var listings []movie.Listing
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		slug, ok := p.listingSlug(href)
		if !ok || seen[slug] {
			return
		}

		title := cleanText(a.Find("h2, h3").First().Text())
		if title == "" {
			title = cleanText(a.Text())
		}
		if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
			return
		}

		poster, _ := a.Find("img").First().Attr("src")

		duration := 0
		if m := listingDurationPattern.FindStringSubmatch(a.Text()); m != nil {
			duration, _ = strconv.Atoi(m[1])
		}

		seen[slug] = true
		listings = append(listings, movie.Listing{
			Title:     title,
			Slug:      slug,
			PosterURL: poster,
			Duration:  duration,
		})
	})

	return listings, nil
}

// listingSlug returns the slug of a movie detail link: /m/{slug}/in-english-in-barcelona.
func (p *Parser) listingSlug(href string) (string, bool) {
	path := p.site.relative(href)
	if !strings.HasPrefix(path, "/m/") || !strings.Contains(path, detailSuffix) {
		return "", false
	}
	slug, _, _ := strings.Cut(strings.TrimPrefix(path, "/m/"), "/")
	if slug == "" {
		return "", false
	}
	return slug, true
}
