package publisher

import (
	"context"
	"fmt"
	"io"

	"github.com/groundworkusa/trust-events/internal/event"
)

// DryRun prints the rows that would be written without touching the sheet.
type DryRun struct {
	out io.Writer
}

// NewDryRun creates a dry-run publisher writing to out.
func NewDryRun(out io.Writer) *DryRun {
	return &DryRun{out: out}
}

// Publish prints each would-be row.
func (p *DryRun) Publish(ctx context.Context, snap *event.Snapshot) error {
	fmt.Fprintf(p.out, "--- Dry run: %d rows (scan date %s) ---\n", len(snap.Events), snap.ScanDate)
	for i, evt := range snap.Events {
		fmt.Fprintf(p.out, "%3d. [%s] %s", i+1, evt.TrustAbbrev, evt.Title)
		if evt.Date != "" {
			fmt.Fprintf(p.out, " (%s", evt.Date)
			if evt.Time != "" {
				fmt.Fprintf(p.out, " %s", evt.Time)
			}
			fmt.Fprint(p.out, ")")
		}
		fmt.Fprintln(p.out)
	}
	return nil
}
