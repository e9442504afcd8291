package scraper

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/groundworkusa/trust-events/internal/event"
	"github.com/groundworkusa/trust-events/internal/trust"
)

var testTrust = trust.Trust{
	URL:    "https://test.example.org/",
	Abbrev: "TST",
	Name:   "Test Trust",
}

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	return doc
}

func findByTitle(events []*event.Event, title string) *event.Event {
	for _, evt := range events {
		if evt.Title == title {
			return evt
		}
	}
	return nil
}

func TestExtractEventsFromContainers(t *testing.T) {
	doc := loadFixture(t, "events_page.html")
	events := extractEvents(doc, "https://test.example.org/events", testTrust)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	planting := findByTitle(events, "Community Tree Planting")
	if planting == nil {
		t.Fatal("expected Community Tree Planting event")
	}
	if planting.Date != "2026-04-18" {
		t.Errorf("expected date 2026-04-18, got %q", planting.Date)
	}
	if planting.Time != "10:00" {
		t.Errorf("expected time 10:00, got %q", planting.Time)
	}
	if planting.Location != "Riverside Park" {
		t.Errorf("expected location Riverside Park, got %q", planting.Location)
	}
	if !strings.Contains(planting.Description, "native trees") {
		t.Errorf("unexpected description %q", planting.Description)
	}
	if planting.EventURL != "https://test.example.org/events/tree-planting" {
		t.Errorf("unexpected event URL %q", planting.EventURL)
	}
	if planting.TrustAbbrev != "TST" {
		t.Errorf("expected trust abbrev TST, got %q", planting.TrustAbbrev)
	}

	workshop := findByTitle(events, "Rain Barrel Workshop")
	if workshop == nil {
		t.Fatal("expected Rain Barrel Workshop event")
	}
	if workshop.Date != "2026-05-02" {
		t.Errorf("expected date 2026-05-02, got %q", workshop.Date)
	}
	if workshop.Time != "13:30" {
		t.Errorf("expected time 13:30, got %q", workshop.Time)
	}
	if workshop.EventURL != "https://test.example.org/events/rain-barrel" {
		t.Errorf("unexpected event URL %q", workshop.EventURL)
	}

	for _, evt := range events {
		if evt.ID == "" {
			t.Error("event ID should be populated")
		}
		if evt.PageURL != "https://test.example.org/events" {
			t.Errorf("unexpected page URL %q", evt.PageURL)
		}
	}
}

func TestExtractStructuredData(t *testing.T) {
	doc := loadFixture(t, "jsonld_page.html")
	events := extractEvents(doc, "https://test.example.org/calendar", testTrust)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	orientation := findByTitle(events, "Green Team Orientation")
	if orientation == nil {
		t.Fatal("expected Green Team Orientation event")
	}
	if orientation.Date != "2026-03-14" {
		t.Errorf("expected date 2026-03-14, got %q", orientation.Date)
	}
	if orientation.Time != "09:30" {
		t.Errorf("expected time 09:30, got %q", orientation.Time)
	}
	if orientation.Location != "Groundwork Hub" {
		t.Errorf("expected location Groundwork Hub, got %q", orientation.Location)
	}
	if orientation.EventURL != "https://test.example.org/events/green-team" {
		t.Errorf("unexpected event URL %q", orientation.EventURL)
	}

	cleanup := findByTitle(events, "River Cleanup")
	if cleanup == nil {
		t.Fatal("expected River Cleanup event from @graph block")
	}
	if cleanup.Date != "2026-04-25" {
		t.Errorf("expected date 2026-04-25, got %q", cleanup.Date)
	}
	if cleanup.Time != "" {
		t.Errorf("date-only startDate should not produce a time, got %q", cleanup.Time)
	}
	if cleanup.Location != "1 Water St Lawrence MA" {
		t.Errorf("unexpected location %q", cleanup.Location)
	}

	if findByTitle(events, "Not an event") != nil {
		t.Error("non-Event @graph entries must be skipped")
	}
}

func TestExtractFromPageStructure(t *testing.T) {
	doc := loadFixture(t, "structure_page.html")
	events := extractEvents(doc, "https://test.example.org/news", testTrust)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	evt := events[0]
	if evt.Title != "Spring Volunteer Day" {
		t.Errorf("expected Spring Volunteer Day, got %q", evt.Title)
	}
	if evt.Date != "2026-04-11" {
		t.Errorf("expected date 2026-04-11, got %q", evt.Date)
	}
	if evt.Time != "09:00" {
		t.Errorf("expected time 09:00, got %q", evt.Time)
	}
	if !strings.Contains(evt.Location, "Veterans Memorial Park") {
		t.Errorf("expected location to mention the park, got %q", evt.Location)
	}
}

func TestFilterColorado(t *testing.T) {
	events := []*event.Event{
		{Title: "Earth Day Festival"},
		{Title: "0 events found"},
		{Title: "Mon"},
		{Title: "12"},
		{Title: "x"},
		{Title: "Event Search"},
	}

	filtered := filterColorado(events)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 event after filtering, got %d", len(filtered))
	}
	if filtered[0].Title != "Earth Day Festival" {
		t.Errorf("expected Earth Day Festival to survive, got %q", filtered[0].Title)
	}
}

func TestStructuredLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"City Hall"`, "City Hall"},
		{"place with name", `{"@type":"Place","name":"The Hub"}`, "The Hub"},
		{"address string", `{"@type":"Place","address":"5 Main St"}`, "5 Main St"},
		{"address object", `{"address":{"streetAddress":"5 Main St","addressLocality":"Erie","addressRegion":"PA","postalCode":"16501"}}`, "5 Main St Erie PA 16501"},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := structuredLocation([]byte(tt.raw))
			if got != tt.want {
				t.Errorf("structuredLocation(%s) = %q, expected %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 400)
	if got := truncate(long, 300); len(got) != 303 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 300 chars plus ellipsis, got %d chars", len(got))
	}
	if got := truncate("short", 300); got != "short" {
		t.Errorf("short strings should pass through, got %q", got)
	}
}
