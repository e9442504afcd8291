package event

// Snapshot is the full set of events produced by one scraper run.
type Snapshot struct {
	ScanDate string   `json:"scan_date"` // YYYY-MM-DD HH:MM:SS of the run
	Events   []*Event `json:"events"`
}

// NewSnapshot creates a snapshot from a list of events, deduplicating and
// sorting them into their canonical order.
func NewSnapshot(events []*Event, scanDate string) *Snapshot {
	events = Dedupe(events)
	SortByDate(events)
	return &Snapshot{
		ScanDate: scanDate,
		Events:   events,
	}
}

// IDSet returns the set of event IDs in the snapshot.
func (s *Snapshot) IDSet() map[string]bool {
	ids := make(map[string]bool, len(s.Events))
	for _, evt := range s.Events {
		ids[evt.ID] = true
	}
	return ids
}

// Equal reports whether two snapshots contain the same events. The scan
// date is excluded, so a re-run producing identical data counts as
// unchanged.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil {
		return false
	}
	if len(s.Events) != len(other.Events) {
		return false
	}
	theirs := other.IDSet()
	for _, evt := range s.Events {
		if !theirs[evt.ID] {
			return false
		}
	}
	return true
}

// Diff returns the events in current that are not present in previous.
// A nil previous snapshot means every current event is new.
func Diff(previous, current *Snapshot) []*Event {
	if current == nil {
		return nil
	}
	var prevIDs map[string]bool
	if previous != nil {
		prevIDs = previous.IDSet()
	}
	newEvents := make([]*Event, 0)
	for _, evt := range current.Events {
		if !prevIDs[evt.ID] {
			newEvents = append(newEvents, evt)
		}
	}
	return newEvents
}
