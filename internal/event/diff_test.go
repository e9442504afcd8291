package event

import "testing"

func makeEvent(title, date string) *Event {
	evt := &Event{Title: title, Date: date, PageURL: "https://example.org/events"}
	evt.ComputeID()
	return evt
}

func TestSnapshotEqual(t *testing.T) {
	a := NewSnapshot([]*Event{
		makeEvent("Cleanup Day", "2026-04-18"),
		makeEvent("Garden Workshop", "2026-05-02"),
	}, "2026-04-01 06:00:00")

	b := NewSnapshot([]*Event{
		makeEvent("Garden Workshop", "2026-05-02"),
		makeEvent("Cleanup Day", "2026-04-18"),
	}, "2026-04-08 06:00:00")

	if !a.Equal(b) {
		t.Error("snapshots with the same events should be equal regardless of scan date and input order")
	}

	c := NewSnapshot([]*Event{
		makeEvent("Cleanup Day", "2026-04-18"),
	}, "2026-04-08 06:00:00")

	if a.Equal(c) {
		t.Error("snapshots with different event sets should not be equal")
	}
	if a.Equal(nil) {
		t.Error("a snapshot should never equal nil")
	}
}

func TestDiff(t *testing.T) {
	previous := NewSnapshot([]*Event{
		makeEvent("Cleanup Day", "2026-04-18"),
	}, "2026-04-01 06:00:00")

	current := NewSnapshot([]*Event{
		makeEvent("Cleanup Day", "2026-04-18"),
		makeEvent("Garden Workshop", "2026-05-02"),
	}, "2026-04-08 06:00:00")

	newEvents := Diff(previous, current)
	if len(newEvents) != 1 {
		t.Fatalf("expected 1 new event, got %d", len(newEvents))
	}
	if newEvents[0].Title != "Garden Workshop" {
		t.Errorf("expected Garden Workshop, got %q", newEvents[0].Title)
	}
}

func TestDiffNilPrevious(t *testing.T) {
	current := NewSnapshot([]*Event{
		makeEvent("Cleanup Day", "2026-04-18"),
		makeEvent("Garden Workshop", "2026-05-02"),
	}, "2026-04-08 06:00:00")

	newEvents := Diff(nil, current)
	if len(newEvents) != 2 {
		t.Errorf("with no previous snapshot every event is new, got %d", len(newEvents))
	}
}

func TestNewSnapshotDeduplicatesAndSorts(t *testing.T) {
	snap := NewSnapshot([]*Event{
		makeEvent("Later Event", "2026-09-01"),
		makeEvent("Earlier Event", "2026-03-15"),
		makeEvent("Later Event", "2026-09-01"),
	}, "2026-04-08 06:00:00")

	if len(snap.Events) != 2 {
		t.Fatalf("expected duplicates removed, got %d events", len(snap.Events))
	}
	if snap.Events[0].Title != "Earlier Event" {
		t.Errorf("expected sorted order, got %q first", snap.Events[0].Title)
	}
}
