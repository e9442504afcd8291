package scraper

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/groundworkusa/trust-events/internal/event"
	"github.com/groundworkusa/trust-events/internal/trust"
)

// subContainerClasses mark child elements that hold individual events inside
// a larger listing container.
var subContainerClasses = []string{"event", "item", "card", "entry"}

// coloradoFilters drop calendar-grid noise emitted by the Denver trust's
// calendar widget.
var coloradoFilters = []string{
	"0 events", "sun", "mon", "tue", "wed", "thu", "fri", "sat",
	"events,", "event search",
}

// extractEvents pulls events out of a parsed page using three strategies in
// order: keyword-classed containers, JSON-LD structured data, and a
// heading+content structural fallback. The later strategies only run when
// the container pass finds fewer than three events.
func extractEvents(doc *goquery.Document, pageURL string, tr trust.Trust) []*event.Event {
	events := make([]*event.Event, 0)

	doc.Find("div, article, section, li").Each(func(i int, sel *goquery.Selection) {
		if !containsKeyword(strings.ToLower(classAndID(sel))) {
			return
		}
		events = append(events, extractFromContainer(sel, pageURL, tr)...)
	})

	if len(events) < 3 {
		events = append(events, extractStructuredData(doc, pageURL, tr)...)
	}
	if len(events) < 3 {
		events = append(events, extractFromPageStructure(doc, pageURL, tr)...)
	}

	if strings.Contains(strings.ToLower(hostOf(pageURL)), "groundworkcolorado.org") {
		events = filterColorado(events)
	}

	// The strategies overlap; the same listing can surface more than once.
	return event.Dedupe(events)
}

// extractFromContainer handles a container that may hold one event or a list
// of sub-containers each holding one.
func extractFromContainer(sel *goquery.Selection, pageURL string, tr trust.Trust) []*event.Event {
	events := make([]*event.Event, 0)

	if goquery.NodeName(sel) == "li" {
		if evt := extractSingleEvent(sel, pageURL, tr); evt != nil {
			events = append(events, evt)
		}
		return events
	}

	subs := sel.Find("div, article, li").FilterFunction(func(i int, sub *goquery.Selection) bool {
		class := strings.ToLower(sub.AttrOr("class", ""))
		for _, marker := range subContainerClasses {
			if strings.Contains(class, marker) {
				return true
			}
		}
		return false
	})

	if subs.Length() > 0 {
		subs.Each(func(i int, sub *goquery.Selection) {
			if evt := extractSingleEvent(sub, pageURL, tr); evt != nil {
				events = append(events, evt)
			}
		})
		return events
	}

	if evt := extractSingleEvent(sel, pageURL, tr); evt != nil {
		events = append(events, evt)
	}
	return events
}

// titleCandidate pairs candidate text with a priority; higher wins.
type titleCandidate struct {
	text     string
	priority int
}

// extractSingleEvent pulls the fields of one event out of an element.
// Returns nil unless a usable title was found.
func extractSingleEvent(sel *goquery.Selection, pageURL string, tr trust.Trust) *event.Event {
	evt := &event.Event{
		TrustAbbrev: tr.Abbrev,
		TrustName:   tr.Name,
		TrustSite:   tr.URL,
		PageURL:     pageURL,
	}

	evt.Title = bestTitle(sel)
	if len(evt.Title) <= 3 {
		return nil
	}

	evt.Date, evt.Time = dateTimeFrom(sel)
	evt.Location = locationFrom(sel)
	evt.Description = bestDescription(sel, evt.Title)
	evt.EventURL = bestLink(sel, pageURL, evt.Title)
	evt.ComputeID()
	return evt
}

// bestTitle picks the most prominent title text inside an element:
// headings outrank title-like classes, which outrank long bold text.
func bestTitle(sel *goquery.Selection) string {
	var candidates []titleCandidate

	sel.Find("h1, h2, h3, h4, h5").Each(func(i int, h *goquery.Selection) {
		level := int(goquery.NodeName(h)[1] - '0')
		candidates = append(candidates, titleCandidate{
			text:     strings.TrimSpace(h.Text()),
			priority: 5 - level,
		})
	})

	sel.Find("strong, b").Each(func(i int, b *goquery.Selection) {
		text := strings.TrimSpace(b.Text())
		if len(text) > 10 {
			candidates = append(candidates, titleCandidate{text: text, priority: 1})
		}
	})

	sel.Find("*").Each(func(i int, el *goquery.Selection) {
		class := strings.ToLower(el.AttrOr("class", ""))
		for _, marker := range []string{"title", "name", "headline"} {
			if strings.Contains(class, marker) {
				candidates = append(candidates, titleCandidate{
					text:     strings.TrimSpace(el.Text()),
					priority: 3,
				})
				break
			}
		}
	})

	best := titleCandidate{priority: -1}
	for _, c := range candidates {
		if c.text != "" && c.priority > best.priority {
			best = c
		}
	}
	return best.text
}

// dateTimeFrom extracts a normalized date and time, checking date-flavored
// elements first and falling back to the element's full text.
func dateTimeFrom(sel *goquery.Selection) (string, string) {
	var texts []string

	sel.Find("*").Each(func(i int, el *goquery.Selection) {
		class := strings.ToLower(el.AttrOr("class", ""))
		for _, marker := range []string{"date", "time", "when"} {
			if strings.Contains(class, marker) {
				texts = append(texts, strings.TrimSpace(el.Text()))
				break
			}
		}
	})

	sel.Find("p, div, span").Each(func(i int, el *goquery.Selection) {
		text := strings.TrimSpace(el.Text())
		lower := strings.ToLower(text)
		for _, marker := range []string{"date:", "when:", "time:"} {
			if strings.Contains(lower, marker) {
				texts = append(texts, text)
				break
			}
		}
	})

	for _, text := range texts {
		if date, tm := ExtractDateTime(text); date != "" {
			return date, tm
		}
	}
	return ExtractDateTime(sel.Text())
}

// locationFrom extracts an event location, preferring location-flavored
// elements over the element's full text.
func locationFrom(sel *goquery.Selection) string {
	var texts []string

	sel.Find("*").Each(func(i int, el *goquery.Selection) {
		class := strings.ToLower(el.AttrOr("class", ""))
		for _, marker := range []string{"location", "venue", "place", "where"} {
			if strings.Contains(class, marker) {
				texts = append(texts, strings.TrimSpace(el.Text()))
				break
			}
		}
	})

	sel.Find("p, div, span").Each(func(i int, el *goquery.Selection) {
		text := strings.TrimSpace(el.Text())
		lower := strings.ToLower(text)
		for _, marker := range []string{"location:", "venue:", "place:", "where:"} {
			if strings.Contains(lower, marker) {
				texts = append(texts, text)
				break
			}
		}
	})

	for _, text := range texts {
		if loc := ExtractLocation(text); loc != "" {
			return loc
		}
	}
	return ExtractLocation(sel.Text())
}

// bestDescription picks the longest paragraph or description-classed block
// that is not the title and is long enough to be meaningful.
func bestDescription(sel *goquery.Selection, title string) string {
	best := ""

	consider := func(text string) {
		text = strings.TrimSpace(text)
		if text != "" && text != title && len(text) > 20 && len(text) > len(best) {
			best = text
		}
	}

	sel.Find("p").Each(func(i int, p *goquery.Selection) {
		consider(p.Text())
	})

	sel.Find("*").Each(func(i int, el *goquery.Selection) {
		class := strings.ToLower(el.AttrOr("class", ""))
		for _, marker := range []string{"desc", "content", "text", "detail"} {
			if strings.Contains(class, marker) {
				consider(el.Text())
				break
			}
		}
	})

	return best
}

// bestLink finds the event detail URL: an anchor containing the title beats
// a "more"/"details"/image anchor, which beats the first anchor found.
func bestLink(sel *goquery.Selection, pageURL, title string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	if goquery.NodeName(sel) == "a" {
		return resolveURL(base, sel.AttrOr("href", ""))
	}

	var link *goquery.Selection
	anchors := sel.Find("a[href]")

	if title != "" {
		anchors.EachWithBreak(func(i int, a *goquery.Selection) bool {
			if strings.Contains(strings.TrimSpace(a.Text()), title) {
				link = a
				return false
			}
			return true
		})
	}

	if link == nil {
		anchors.EachWithBreak(func(i int, a *goquery.Selection) bool {
			lower := strings.ToLower(a.Text())
			if strings.Contains(lower, "more") || strings.Contains(lower, "details") || a.Find("img").Length() > 0 {
				link = a
				return false
			}
			return true
		})
	}

	if link == nil && anchors.Length() > 0 {
		link = anchors.First()
	}
	if link == nil {
		return ""
	}
	return resolveURL(base, link.AttrOr("href", ""))
}

// ldEvent is the subset of a schema.org Event we care about.
type ldEvent struct {
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	StartDate   string          `json:"startDate"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Location    json.RawMessage `json:"location"`
}

// ldLocation covers the Place shapes sites actually emit.
type ldLocation struct {
	Name    string          `json:"name"`
	Address json.RawMessage `json:"address"`
}

// ldAddress is a schema.org PostalAddress.
type ldAddress struct {
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
}

// extractStructuredData pulls events from JSON-LD script blocks, handling a
// single Event object, an array of objects, and the @graph wrapper.
func extractStructuredData(doc *goquery.Document, pageURL string, tr trust.Trust) []*event.Event {
	events := make([]*event.Event, 0)

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, script *goquery.Selection) {
		raw := strings.TrimSpace(script.Text())
		if raw == "" {
			return
		}

		var candidates []json.RawMessage
		switch raw[0] {
		case '[':
			var list []json.RawMessage
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				return
			}
			candidates = list
		case '{':
			var wrapper struct {
				Graph []json.RawMessage `json:"@graph"`
			}
			if err := json.Unmarshal([]byte(raw), &wrapper); err == nil && len(wrapper.Graph) > 0 {
				candidates = wrapper.Graph
			} else {
				candidates = []json.RawMessage{json.RawMessage(raw)}
			}
		default:
			return
		}

		for _, candidate := range candidates {
			var ld ldEvent
			if err := json.Unmarshal(candidate, &ld); err != nil {
				continue
			}
			if ld.Type != "Event" || ld.Name == "" {
				continue
			}
			events = append(events, structuredEvent(ld, pageURL, tr))
		}
	})

	return events
}

// structuredEvent converts a JSON-LD event into our event model.
func structuredEvent(ld ldEvent, pageURL string, tr trust.Trust) *event.Event {
	evt := &event.Event{
		TrustAbbrev: tr.Abbrev,
		TrustName:   tr.Name,
		TrustSite:   tr.URL,
		PageURL:     pageURL,
		Title:       ld.Name,
		Description: ld.Description,
	}

	if ld.StartDate != "" {
		if t, err := parseStartDate(ld.StartDate); err == nil {
			evt.Date = t.Format("2006-01-02")
			if t.Hour() != 0 || t.Minute() != 0 {
				evt.Time = t.Format("15:04")
			}
		}
	}

	evt.Location = structuredLocation(ld.Location)

	if ld.URL != "" {
		if base, err := url.Parse(pageURL); err == nil {
			evt.EventURL = resolveURL(base, ld.URL)
		}
	}

	evt.ComputeID()
	return evt
}

// parseStartDate handles the datetime shapes seen in JSON-LD startDate.
func parseStartDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// structuredLocation flattens a JSON-LD location into a display string.
func structuredLocation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var loc ldLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return ""
	}
	if loc.Name != "" {
		return loc.Name
	}
	if len(loc.Address) == 0 {
		return ""
	}

	var addrString string
	if err := json.Unmarshal(loc.Address, &addrString); err == nil {
		return addrString
	}

	var addr ldAddress
	if err := json.Unmarshal(loc.Address, &addr); err != nil {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, part := range []string{addr.StreetAddress, addr.AddressLocality, addr.AddressRegion, addr.PostalCode} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// extractFromPageStructure finds heading+content patterns that read like
// event announcements, used when the other strategies come up short.
func extractFromPageStructure(doc *goquery.Document, pageURL string, tr trust.Trust) []*event.Event {
	events := make([]*event.Event, 0)

	doc.Find("h1, h2, h3, h4").Each(func(i int, heading *goquery.Selection) {
		headingText := strings.TrimSpace(heading.Text())
		if len(headingText) < 5 {
			return
		}
		switch strings.ToLower(headingText) {
		case "menu", "navigation", "main menu":
			return
		}

		date, tm := ExtractDateTime(headingText)

		// Gather up to three substantial sibling blocks after the heading
		var blocks []*goquery.Selection
		for next := heading.Next(); next.Length() > 0 && len(blocks) < 3; next = next.Next() {
			name := goquery.NodeName(next)
			if (name == "p" || name == "div") && len(strings.TrimSpace(next.Text())) > 20 {
				blocks = append(blocks, next)
			}
		}
		if len(blocks) == 0 {
			return
		}

		parts := make([]string, 0, len(blocks))
		for _, b := range blocks {
			parts = append(parts, strings.TrimSpace(b.Text()))
		}
		content := strings.Join(parts, " ")

		if date == "" {
			date, tm = ExtractDateTime(content)
		}
		if date == "" && !containsKeyword(strings.ToLower(headingText)) {
			return
		}

		eventURL := ""
		if base, err := url.Parse(pageURL); err == nil {
			link := heading.Find("a[href]").First()
			if link.Length() == 0 {
				link = blocks[0].Find("a[href]").First()
			}
			if link.Length() > 0 {
				eventURL = resolveURL(base, link.AttrOr("href", ""))
			}
		}

		evt := &event.Event{
			TrustAbbrev: tr.Abbrev,
			TrustName:   tr.Name,
			TrustSite:   tr.URL,
			PageURL:     pageURL,
			Title:       headingText,
			Date:        date,
			Time:        tm,
			Location:    ExtractLocation(content),
			Description: truncate(content, 300),
			EventURL:    eventURL,
		}
		evt.ComputeID()
		events = append(events, evt)
	})

	return events
}

// filterColorado drops calendar-grid UI artifacts from the Denver site.
func filterColorado(events []*event.Event) []*event.Event {
	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		title := strings.TrimSpace(evt.Title)
		if len(title) < 3 || isAllDigits(title) {
			continue
		}
		lower := strings.ToLower(title)
		noise := false
		for _, f := range coloradoFilters {
			if strings.Contains(lower, f) {
				noise = true
				break
			}
		}
		if noise {
			continue
		}
		filtered = append(filtered, evt)
	}
	return filtered
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// classAndID joins an element's class and id attributes for keyword checks.
func classAndID(sel *goquery.Selection) string {
	return sel.AttrOr("class", "") + " " + sel.AttrOr("id", "")
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// collapseSpace folds runs of whitespace into single spaces.
var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
