package event

import "testing"

func TestGenerateID(t *testing.T) {
	id1 := GenerateID("Community Cleanup", "2026-04-18", "https://example.org/events")
	id2 := GenerateID("Community Cleanup", "2026-04-18", "https://example.org/events")
	id3 := GenerateID("Community Cleanup", "2026-04-25", "https://example.org/events")

	if id1 == "" {
		t.Fatal("expected non-empty ID")
	}
	if id1 != id2 {
		t.Errorf("same inputs should produce same ID: %s != %s", id1, id2)
	}
	if id1 == id3 {
		t.Error("different dates should produce different IDs")
	}
}

func TestGenerateIDTrimsTitle(t *testing.T) {
	id1 := GenerateID("  Tree Planting ", "2026-05-01", "https://example.org/")
	id2 := GenerateID("Tree Planting", "2026-05-01", "https://example.org/")
	if id1 != id2 {
		t.Error("leading/trailing whitespace in title should not change the ID")
	}
}

func TestDedupe(t *testing.T) {
	events := []*Event{
		{Title: "Cleanup Day", Date: "2026-04-18", PageURL: "https://example.org/events"},
		{Title: "Cleanup Day", Date: "2026-04-18", PageURL: "https://example.org/events"},
		{Title: "Cleanup Day", Date: "2026-04-18", PageURL: "https://example.org/calendar"},
		{Title: "Garden Workshop", Date: "2026-04-18", PageURL: "https://example.org/events"},
	}

	unique := Dedupe(events)
	if len(unique) != 3 {
		t.Fatalf("expected 3 unique events, got %d", len(unique))
	}
	for _, evt := range unique {
		if evt.ID == "" {
			t.Error("Dedupe should populate missing IDs")
		}
	}
	// Order of first occurrences must be preserved
	if unique[0].PageURL != "https://example.org/events" || unique[2].Title != "Garden Workshop" {
		t.Error("Dedupe should preserve first-seen order")
	}
}

func TestSortByDate(t *testing.T) {
	events := []*Event{
		{Title: "Undated Workshop", Date: ""},
		{Title: "Later Event", Date: "2026-09-01"},
		{Title: "Earlier Event", Date: "2026-03-15"},
		{Title: "Also Undated"},
	}

	SortByDate(events)

	if events[0].Title != "Earlier Event" {
		t.Errorf("expected earliest event first, got %q", events[0].Title)
	}
	if events[1].Title != "Later Event" {
		t.Errorf("expected dated events before undated, got %q", events[1].Title)
	}
	if events[2].Date != "" || events[3].Date != "" {
		t.Error("undated events should sort last")
	}
}

func TestSortByDateStableWithinDate(t *testing.T) {
	events := []*Event{
		{Title: "B Event", Date: "2026-06-01", TrustAbbrev: "RVA"},
		{Title: "A Event", Date: "2026-06-01", TrustAbbrev: "ATL"},
		{Title: "C Event", Date: "2026-06-01", TrustAbbrev: "ATL"},
	}

	SortByDate(events)

	if events[0].TrustAbbrev != "ATL" || events[0].Title != "A Event" {
		t.Errorf("expected ATL/A Event first, got %s/%s", events[0].TrustAbbrev, events[0].Title)
	}
	if events[2].TrustAbbrev != "RVA" {
		t.Errorf("expected RVA last, got %s", events[2].TrustAbbrev)
	}
}
