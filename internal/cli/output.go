package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groundworkusa/trust-events/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt     time.Time      `json:"checked_at"`
	Events        []*event.Event `json:"events"`
	EventCount    int            `json:"event_count"`
	NewEvents     []*event.Event `json:"new_events,omitempty"`
	NewEventCount int            `json:"new_event_count"`
	SnapshotPath  string         `json:"snapshot_path,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text, grouped by trust.
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	newIDs := make(map[string]bool, len(result.NewEvents))
	for _, evt := range result.NewEvents {
		newIDs[evt.ID] = true
	}

	byTrust := make(map[string][]*event.Event)
	for _, evt := range result.Events {
		byTrust[evt.TrustAbbrev] = append(byTrust[evt.TrustAbbrev], evt)
	}
	abbrevs := make([]string, 0, len(byTrust))
	for abbrev := range byTrust {
		abbrevs = append(abbrevs, abbrev)
	}
	sort.Strings(abbrevs)

	for _, abbrev := range abbrevs {
		events := byTrust[abbrev]
		fmt.Fprintf(w, "\n%s (%d events):\n", abbrev, len(events))
		for _, evt := range events {
			prefix := "  "
			if newIDs[evt.ID] {
				prefix = "  NEW: "
			}
			fmt.Fprintf(w, "%s%s\n", prefix, summaryLine(evt))
			if verbose {
				fmt.Fprintf(w, "       ID: %s\n", evt.ID)
				fmt.Fprintf(w, "       Page: %s\n", evt.PageURL)
				if evt.Location != "" {
					fmt.Fprintf(w, "       Location: %s\n", evt.Location)
				}
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d events (%d new) across %d trusts\n",
		result.EventCount, result.NewEventCount, len(byTrust))
	if result.SnapshotPath != "" {
		fmt.Fprintf(w, "Snapshot: %s\n", result.SnapshotPath)
	}
	return nil
}

// summaryLine renders one event as a single line.
func summaryLine(evt *event.Event) string {
	line := evt.Title
	if evt.Date != "" {
		line = evt.Date + " " + line
	}
	if evt.Time != "" {
		line += " at " + evt.Time
	}
	return line
}
