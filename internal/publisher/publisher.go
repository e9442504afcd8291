package publisher

import (
	"context"

	"github.com/groundworkusa/trust-events/internal/event"
)

// Publisher synchronizes a snapshot to an external destination.
type Publisher interface {
	// Publish replaces the destination's contents with the snapshot.
	// Publishing the same snapshot twice leaves the destination unchanged.
	Publish(ctx context.Context, snap *event.Snapshot) error
}

// header is the spreadsheet's first row. Kept in the exact order the
// original sheet was built with; the CSV twin in storage mirrors it.
var header = []interface{}{
	"Trust Abbrev", "Trust Name", "Trust Website", "Page URL", "Event Title",
	"Date", "Time", "Location", "Description", "Event URL", "Scan Date",
}

// snapshotRows converts a snapshot into spreadsheet rows, one per event,
// with the run's scan date in the last column.
func snapshotRows(snap *event.Snapshot) [][]interface{} {
	rows := make([][]interface{}, 0, len(snap.Events))
	for _, evt := range snap.Events {
		rows = append(rows, []interface{}{
			evt.TrustAbbrev, evt.TrustName, evt.TrustSite, evt.PageURL, evt.Title,
			evt.Date, evt.Time, evt.Location, evt.Description, evt.EventURL,
			snap.ScanDate,
		})
	}
	return rows
}
