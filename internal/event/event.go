package event

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"
)

// Event represents a single event found on a Groundwork Trust site
type Event struct {
	ID          string `json:"id"`
	TrustAbbrev string `json:"trust_abbrev"`
	TrustName   string `json:"trust_name"`
	TrustSite   string `json:"trust_site"`
	PageURL     string `json:"page_url"`
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"` // normalized YYYY-MM-DD, empty if unknown
	Time        string `json:"time,omitempty"` // normalized 24h HH:MM, empty if unknown
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	EventURL    string `json:"event_url,omitempty"`
}

// GenerateID creates a deterministic ID from the fields that identify an
// event across runs: title, date, and the page it was found on.
func GenerateID(title, date, pageURL string) string {
	h := sha1.New()
	h.Write([]byte(strings.TrimSpace(title) + "|" + date + "|" + pageURL))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ComputeID populates the ID field from the event's identifying fields.
func (e *Event) ComputeID() {
	e.ID = GenerateID(e.Title, e.Date, e.PageURL)
}

// Dedupe removes events whose IDs were already seen, preserving order.
func Dedupe(events []*Event) []*Event {
	seen := make(map[string]bool, len(events))
	unique := make([]*Event, 0, len(events))
	for _, evt := range events {
		if evt.ID == "" {
			evt.ComputeID()
		}
		if seen[evt.ID] {
			continue
		}
		seen[evt.ID] = true
		unique = append(unique, evt)
	}
	return unique
}

// SortByDate orders events by date ascending, undated events last.
// Within the same date, events sort by trust abbreviation then title so
// output is stable across runs.
func SortByDate(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := sortKey(events[i]), sortKey(events[j])
		if a != b {
			return a < b
		}
		if events[i].TrustAbbrev != events[j].TrustAbbrev {
			return events[i].TrustAbbrev < events[j].TrustAbbrev
		}
		return events[i].Title < events[j].Title
	})
}

// sortKey returns a lexically sortable date key, pushing undated events
// past every real date.
func sortKey(e *Event) string {
	if e.Date == "" {
		return "9999-12-31"
	}
	return e.Date
}
