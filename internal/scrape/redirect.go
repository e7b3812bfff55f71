package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/voseflix/pkg/movie"
)

// resolveConcurrency caps concurrent redirect page fetches.
const resolveConcurrency = 10

// bookingHostSelector matches outbound links to known ticketing sites.
const bookingHostSelector = `a[href*="cinesa.es"], a[href*="yelmo.es"], a[href*="moobycines"], ` +
	`a[href*="cinesverdi"], a[href*="arenascinema"], a[href*="entradas"], a[rel="nofollow"]`

var (
	metaRefreshURLPattern = regexp.MustCompile(`(?i)url=(.+)`)
	jsLocationPatterns    = []*regexp.Regexp{
		regexp.MustCompile(`window\.location\s*=\s*["']([^"']+)["']`),
		regexp.MustCompile(`location\.href\s*=\s*["']([^"']+)["']`),
	}
)

// ParseRedirectTarget finds the ticketing URL on a booking redirect page.
// It tries outbound ticketing links, then a meta refresh, then a script
// assignment to window.location.
func ParseRedirectTarget(html string) (string, bool) {
	doc, err := newDocument(html)
	if err != nil {
		return "", false
	}

	if href, ok := doc.Find(bookingHostSelector).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href), true
	}

	if content, ok := doc.Find(`meta[http-equiv="refresh"]`).First().Attr("content"); ok {
		if m := metaRefreshURLPattern.FindStringSubmatch(content); m != nil {
			return strings.Trim(strings.TrimSpace(m[1]), `'"`), true
		}
	}

	script := doc.Find("script").Text()
	for _, re := range jsLocationPatterns {
		if m := re.FindStringSubmatch(script); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// PageFetcher returns the body of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ResolveBookingURLs replaces each showtime's site redirect URL with the
// ticketing URL it points at. Showtimes whose redirect cannot be fetched or
// parsed keep the redirect URL. The input slice is not modified.
func ResolveBookingURLs(ctx context.Context, f PageFetcher, showtimes []movie.Showtime, log *slog.Logger) []movie.Showtime {
	if log == nil {
		log = slog.Default()
	}
	out := make([]movie.Showtime, len(showtimes))
	copy(out, showtimes)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i := range out {
		g.Go(func() error {
			html, err := f.Fetch(ctx, out[i].BookingURL)
			if err != nil {
				log.Debug("booking redirect fetch failed", "url", out[i].BookingURL, "error", err)
				return nil
			}
			if target, ok := ParseRedirectTarget(html); ok {
				out[i].BookingURL = target
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
