package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/groundworkusa/trust-events/internal/event"
)

// Filename layout for snapshot files written into the results directory.
const (
	snapshotPrefix  = "events_findings_"
	timestampLayout = "20060102_150405"
)

// csvHeader matches the column order of the published spreadsheet.
var csvHeader = []string{
	"Trust Abbrev", "Trust Name", "Trust Website", "Page URL", "Event Title",
	"Date", "Time", "Location", "Description", "Event URL", "Scan Date",
}

// Store manages the results directory that holds event snapshots.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the results directory path.
func (s *Store) Dir() string {
	return s.dir
}

// WriteSnapshot persists a snapshot as a timestamped JSON file plus a CSV
// twin with the spreadsheet's column layout. Returns the JSON path, which
// is what the publisher consumes.
func (s *Store) WriteSnapshot(snap *event.Snapshot, at time.Time) (string, error) {
	stamp := at.Format(timestampLayout)
	jsonPath := filepath.Join(s.dir, snapshotPrefix+stamp+".json")
	csvPath := filepath.Join(s.dir, snapshotPrefix+stamp+".csv")

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	if err := s.writeCSV(csvPath, snap); err != nil {
		return "", err
	}
	return jsonPath, nil
}

// writeCSV writes the snapshot in the spreadsheet's row format.
func (s *Store) writeCSV(path string, snap *event.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, evt := range snap.Events {
		row := []string{
			evt.TrustAbbrev, evt.TrustName, evt.TrustSite, evt.PageURL, evt.Title,
			evt.Date, evt.Time, evt.Location, evt.Description, evt.EventURL,
			snap.ScanDate,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// Latest returns the path of the most recent snapshot JSON file. The
// timestamped filenames sort chronologically, so the lexically largest name
// is the newest. Returns os.ErrNotExist when the directory holds none.
func (s *Store) Latest() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("reading results directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", os.ErrNotExist
	}

	sort.Strings(names)
	return filepath.Join(s.dir, names[len(names)-1]), nil
}

// LoadSnapshot reads and parses a snapshot file.
func (s *Store) LoadSnapshot(path string) (*event.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap event.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Events == nil {
		snap.Events = make([]*event.Event, 0)
	}
	return &snap, nil
}

// RemoveSnapshot deletes a snapshot JSON file and its CSV twin. Used when
// a run produced data identical to the previous snapshot.
func (s *Store) RemoveSnapshot(jsonPath string) error {
	if err := os.Remove(jsonPath); err != nil {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	csvPath := strings.TrimSuffix(jsonPath, ".json") + ".csv"
	if err := os.Remove(csvPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing csv: %w", err)
	}
	return nil
}

// LoadLatest loads the most recent snapshot, or nil (no error) when the
// results directory has never been populated.
func (s *Store) LoadLatest() (*event.Snapshot, error) {
	path, err := s.Latest()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return s.LoadSnapshot(path)
}
