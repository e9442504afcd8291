package cli

import (
	"sort"
	"strings"

	"github.com/groundworkusa/trust-events/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTrust SortOrder = "trust"
	SortByTitle SortOrder = "title"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.Slice(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByTrust:
		sort.Slice(events, func(i, j int) bool {
			if events[i].TrustAbbrev != events[j].TrustAbbrev {
				return events[i].TrustAbbrev < events[j].TrustAbbrev
			}
			return compareByDate(events[i], events[j])
		})
	case SortByTitle:
		sort.Slice(events, func(i, j int) bool {
			if events[i].Title != events[j].Title {
				return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by date, pushing undated events last.
func compareByDate(i, j *event.Event) bool {
	dateI := event.ParseDate(i.Date)
	dateJ := event.ParseDate(j.Date)

	if !dateI.IsZero() && !dateJ.IsZero() {
		if !dateI.Equal(dateJ) {
			return dateI.Before(dateJ)
		}
	} else if !dateI.IsZero() {
		return true
	} else if !dateJ.IsZero() {
		return false
	}

	if i.TrustAbbrev != j.TrustAbbrev {
		return i.TrustAbbrev < j.TrustAbbrev
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
