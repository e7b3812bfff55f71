package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Parser parses origin pages for one Site.
type Parser struct {
	site Site
	now  func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock used for year inference and the "today" fallback.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// NewParser creates a Parser for site.
func NewParser(site Site, opts ...Option) *Parser {
	p := &Parser{site: site, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Site returns the parser's site.
func (p *Parser) Site() Site {
	return p.site
}

// localNow is the current time in the site's timezone.
func (p *Parser) localNow() time.Time {
	return p.now().In(p.site.Location)
}

func newDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// cleanText trims and collapses whitespace runs.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
