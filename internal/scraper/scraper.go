package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/groundworkusa/trust-events/internal/event"
	"github.com/groundworkusa/trust-events/internal/logger"
	"github.com/groundworkusa/trust-events/internal/trust"
)

const (
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultTimeout = 15 * time.Second
)

// eventKeywords identify event content in page titles, headings, and
// element class/id attributes.
var eventKeywords = []string{
	"event", "events", "workshop", "webinar", "conference", "seminar",
	"meeting", "meetup", "calendar", "upcoming", "schedule",
	"register", "registration", "attend", "join us",
}

// eventPagePatterns are URL path fragments that mark likely event pages.
var eventPagePatterns = []string{
	"/event", "/events", "/calendar", "/upcoming", "/schedule",
	"/workshop", "/webinar",
}

// skipExtensions and skipSchemes filter links that never lead to event content.
var (
	skipExtensions = []string{".pdf", ".jpg", ".png"}
	skipSchemes    = []string{"javascript:", "mailto:", "tel:"}
)

// Options configures crawl behavior.
type Options struct {
	Timeout  time.Duration // per-request timeout
	MaxDepth int           // crawl depth from each trust homepage
	MaxPages int           // visited-page cap per site
	Delay    time.Duration // politeness delay between requests
}

// Scraper crawls Groundwork Trust websites and extracts event listings.
type Scraper struct {
	client   *http.Client
	registry *trust.Registry
	maxDepth int
	maxPages int
	delay    time.Duration
}

// New creates a Scraper over the given trust registry.
func New(registry *trust.Registry, opts Options) *Scraper {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 2
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 100
	}
	return &Scraper{
		client:   &http.Client{Timeout: opts.Timeout},
		registry: registry,
		maxDepth: opts.MaxDepth,
		maxPages: opts.MaxPages,
		delay:    opts.Delay,
	}
}

// Scrape crawls every trust site and returns the combined, deduplicated
// event list. Individual site failures are logged and skipped; the scrape
// as a whole fails only when no site could be reached or no events were
// parsed anywhere, so a broken run never masquerades as an empty week.
func (s *Scraper) Scrape(ctx context.Context) ([]*event.Event, error) {
	trusts := s.registry.All()
	all := make([]*event.Event, 0)
	unreachable := 0

	for _, tr := range trusts {
		logger.Info("Examining trust site", logger.Fields{
			"site": tr.URL, "abbrev": tr.Abbrev,
		})

		events, err := s.crawlSite(ctx, tr)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Error("Trust site unreachable", logger.Fields{"site": tr.URL}, err)
			unreachable++
			continue
		}

		logger.Info("Finished trust site", logger.Fields{
			"site": tr.URL, "events": len(events),
		})
		all = append(all, events...)
	}

	if unreachable == len(trusts) {
		return nil, fmt.Errorf("all %d trust sites unreachable", len(trusts))
	}

	all = event.Dedupe(all)
	if len(all) == 0 {
		return nil, fmt.Errorf("no events parsed from any trust site")
	}
	return all, nil
}

// page is a pending crawl target.
type page struct {
	url   string
	depth int
}

// crawlSite walks one trust site breadth-first up to maxDepth, extracting
// events from likely event pages (and from first-level pages as a fallback).
// Returns an error only when the homepage itself cannot be fetched.
func (s *Scraper) crawlSite(ctx context.Context, tr trust.Trust) ([]*event.Event, error) {
	visited := make(map[string]bool)
	events := make([]*event.Event, 0)
	queue := []page{{url: tr.URL, depth: 0}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if p.depth >= s.maxDepth || visited[p.url] {
			continue
		}
		visited[p.url] = true

		if err := s.pause(ctx); err != nil {
			return nil, err
		}

		doc, err := s.fetch(ctx, p.url)
		if err != nil {
			if p.depth == 0 {
				return nil, fmt.Errorf("fetching homepage: %w", err)
			}
			logger.Warn("Skipping unreachable page", logger.Fields{"url": p.url, "error": err.Error()})
			continue
		}

		if isLikelyEventPage(p.url, doc) {
			found := extractEvents(doc, p.url, tr)
			if len(found) > 0 {
				logger.Debug("Extracted events from event page", logger.Fields{
					"url": p.url, "count": len(found),
				})
			}
			events = append(events, found...)
		} else if p.depth < 1 {
			// Homepages sometimes list events without looking like event pages
			events = append(events, extractEvents(doc, p.url, tr)...)
		}

		if p.depth+1 >= s.maxDepth {
			continue
		}

		priority, normal := s.collectLinks(doc, p.url, tr.URL)
		for _, link := range priority {
			if !visited[link] {
				queue = append(queue, page{url: link, depth: p.depth + 1})
			}
		}
		for _, link := range normal {
			if len(visited)+len(queue) >= s.maxPages {
				break
			}
			if !visited[link] {
				queue = append(queue, page{url: link, depth: p.depth + 1})
			}
		}
	}

	return events, nil
}

// pause sleeps the politeness delay, honoring cancellation.
func (s *Scraper) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// fetch retrieves a page and parses it into a goquery document.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// collectLinks gathers same-site links from a page, split into event-pattern
// links (always crawled) and everything else (crawled up to the page cap).
func (s *Scraper) collectLinks(doc *goquery.Document, pageURL, siteURL string) (priority, normal []string) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil
	}

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		full := resolveURL(base, href)
		if full == "" || !followable(full, siteURL) {
			return
		}
		if matchesEventPattern(full) {
			priority = append(priority, full)
		} else {
			normal = append(normal, full)
		}
	})
	return priority, normal
}

// followable reports whether a resolved link stays on the trust site and
// points at crawlable content.
func followable(fullURL, siteURL string) bool {
	if !strings.HasPrefix(fullURL, siteURL) {
		return false
	}
	if strings.Contains(fullURL, "#") {
		return false
	}
	lower := strings.ToLower(fullURL)
	for _, scheme := range skipSchemes {
		if strings.Contains(lower, scheme) {
			return false
		}
	}
	for _, ext := range skipExtensions {
		if strings.Contains(lower, ext) {
			return false
		}
	}
	return true
}

// matchesEventPattern reports whether a URL path looks like an event page.
func matchesEventPattern(pageURL string) bool {
	lower := strings.ToLower(pageURL)
	for _, pattern := range eventPagePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// isLikelyEventPage determines whether a page is worth a full event
// extraction pass: event-ish URL, title, or any h1-h3 heading.
func isLikelyEventPage(pageURL string, doc *goquery.Document) bool {
	if matchesEventPattern(pageURL) {
		return true
	}

	title := strings.ToLower(doc.Find("title").First().Text())
	if containsKeyword(title) {
		return true
	}

	likely := false
	doc.Find("h1, h2, h3").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if containsKeyword(strings.ToLower(sel.Text())) {
			likely = true
			return false
		}
		return true
	})
	return likely
}

// containsKeyword reports whether lowercased text contains an event keyword.
func containsKeyword(text string) bool {
	for _, kw := range eventKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// resolveURL joins a possibly-relative href against the page URL.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
