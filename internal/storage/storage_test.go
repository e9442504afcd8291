package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/groundworkusa/trust-events/internal/event"
)

func testSnapshot(scanDate string) *event.Snapshot {
	return event.NewSnapshot([]*event.Event{
		{
			TrustAbbrev: "RVA",
			TrustName:   "RVA",
			TrustSite:   "https://www.groundworkrva.org/",
			PageURL:     "https://www.groundworkrva.org/events/",
			Title:       "Community Cleanup",
			Date:        "2026-04-18",
			Time:        "10:00",
			Location:    "Riverside Park",
		},
		{
			TrustAbbrev: "BUF",
			TrustName:   "Buffalo",
			TrustSite:   "https://gwbuffalo.org/",
			PageURL:     "https://gwbuffalo.org/calendar/",
			Title:       "Garden Workshop",
			Date:        "2026-05-02",
		},
	}, scanDate)
}

func TestWriteAndLoadSnapshot(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "scraper_results"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	snap := testSnapshot("2026-04-06 06:00:00")
	at := time.Date(2026, 4, 6, 6, 0, 0, 0, time.UTC)

	jsonPath, err := store.WriteSnapshot(snap, at)
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if filepath.Base(jsonPath) != "events_findings_20260406_060000.json" {
		t.Errorf("unexpected snapshot filename %q", filepath.Base(jsonPath))
	}

	loaded, err := store.LoadSnapshot(jsonPath)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(loaded.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(loaded.Events))
	}
	if loaded.ScanDate != "2026-04-06 06:00:00" {
		t.Errorf("unexpected scan date %q", loaded.ScanDate)
	}
	if !loaded.Equal(snap) {
		t.Error("loaded snapshot should equal what was written")
	}
}

func TestWriteSnapshotCSV(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	snap := testSnapshot("2026-04-06 06:00:00")
	at := time.Date(2026, 4, 6, 6, 0, 0, 0, time.UTC)
	if _, err := store.WriteSnapshot(snap, at); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	csvPath := filepath.Join(store.Dir(), "events_findings_20260406_060000.csv")
	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Trust Abbrev" || rows[0][10] != "Scan Date" {
		t.Errorf("unexpected header %v", rows[0])
	}
	// Snapshot order is by date: Community Cleanup (April) first
	if rows[1][4] != "Community Cleanup" || rows[1][5] != "2026-04-18" {
		t.Errorf("unexpected first row %v", rows[1])
	}
	if rows[1][10] != "2026-04-06 06:00:00" {
		t.Errorf("expected scan date in last column, got %q", rows[1][10])
	}
}

func TestLatest(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	if _, err := store.Latest(); !os.IsNotExist(err) {
		t.Errorf("expected ErrNotExist for empty store, got %v", err)
	}

	snap := testSnapshot("2026-03-30 06:00:00")
	if _, err := store.WriteSnapshot(snap, time.Date(2026, 3, 30, 6, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("writing first snapshot: %v", err)
	}
	newer := testSnapshot("2026-04-06 06:00:00")
	if _, err := store.WriteSnapshot(newer, time.Date(2026, 4, 6, 6, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("writing second snapshot: %v", err)
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if filepath.Base(latest) != "events_findings_20260406_060000.json" {
		t.Errorf("expected newest snapshot, got %q", filepath.Base(latest))
	}
}

func TestLoadLatestEmpty(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	snap, err := store.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest on empty store should not error, got %v", err)
	}
	if snap != nil {
		t.Error("expected nil snapshot for empty store")
	}
}

func TestRemoveSnapshot(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	snap := testSnapshot("2026-04-06 06:00:00")
	jsonPath, err := store.WriteSnapshot(snap, time.Date(2026, 4, 6, 6, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	if err := store.RemoveSnapshot(jsonPath); err != nil {
		t.Fatalf("RemoveSnapshot failed: %v", err)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir after removal, found %d files", len(entries))
	}

	if err := store.RemoveSnapshot(jsonPath); err == nil {
		t.Error("expected error removing a missing snapshot")
	}
}

func TestLoadSnapshotMalformed(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	path := filepath.Join(store.Dir(), "events_findings_20260406_060000.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if _, err := store.LoadSnapshot(path); err == nil {
		t.Error("expected error for malformed snapshot")
	}
}
