// Package scrape parses the origin site's homepage, movie detail pages and
// 7-day overview grid into typed records.
//
// Parsers are pure functions of their HTML input and the injected clock;
// fetching, caching and retry live elsewhere.
package scrape

import (
	"strings"
	"time"
)

// Site defaults.
const (
	DefaultBaseURL  = "https://englishcinemabarcelona.com"
	DefaultCDNHost  = "img.englishcinemabarcelona.com"
	DefaultTimezone = "Europe/Madrid"

	detailSuffix = "/in-english-in-barcelona"
	overviewPath = "/7-day-overview"
	gotoPath     = "/goto"
)

// Site describes the origin's URL layout.
type Site struct {
	BaseURL  string
	CDNHost  string
	Location *time.Location
}

// NewSite returns a Site for baseURL in loc. Empty values fall back to defaults.
func NewSite(baseURL string, loc *time.Location) Site {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if loc == nil {
		loc = time.UTC
	}
	return Site{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		CDNHost:  DefaultCDNHost,
		Location: loc,
	}
}

// HomeURL is the movie listing page.
func (s Site) HomeURL() string {
	return s.BaseURL
}

// DetailURL is a movie's detail page.
func (s Site) DetailURL(slug string) string {
	return s.BaseURL + "/m/" + slug + detailSuffix
}

// OverviewURL is the 7-day showtime grid.
func (s Site) OverviewURL() string {
	return s.BaseURL + overviewPath
}

// Absolute resolves a site-relative href.
func (s Site) Absolute(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.BaseURL + href
}

// GotoURL is the direct booking endpoint for a known showtime id.
func (s Site) GotoURL(cinemaSlug, showtimeID string) string {
	return s.BaseURL + gotoPath + "/" + cinemaSlug + "/" + showtimeID
}

// relative strips the site's base URL from an absolute href.
func (s Site) relative(href string) string {
	return strings.TrimPrefix(href, s.BaseURL)
}
