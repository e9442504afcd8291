package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/groundworkusa/trust-events/internal/event"
)

const defaultDuration = 2 * time.Hour

// GenerateICS renders a snapshot as a single iCalendar feed with one VEVENT
// per dated event. Events without a parseable date are skipped; a calendar
// entry with a made-up date is worse than no entry.
func GenerateICS(snap *event.Snapshot, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Groundwork USA//trust-events//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(now.UTC())
	for _, evt := range snap.Events {
		date := event.ParseDate(evt.Date)
		if date.IsZero() {
			continue
		}
		writeVEvent(&ics, evt, date, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeVEvent(ics *strings.Builder, evt *event.Event, date time.Time, stamp string) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%s@groundworkusa.org\r\n", evt.ID)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", stamp)

	start := startOf(evt, date)
	fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(start))
	fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(start.Add(defaultDuration)))

	summary := fmt.Sprintf("Groundwork %s: %s", evt.TrustName, evt.Title)
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(summary))

	if evt.Description != "" {
		fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(evt.Description))
	}
	if evt.Location != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(evt.Location))
	}

	link := evt.EventURL
	if link == "" {
		link = evt.PageURL
	}
	if link != "" {
		fmt.Fprintf(ics, "URL:%s\r\n", link)
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// startOf combines the event's date with its time of day when one was
// extracted, defaulting to 09:00.
func startOf(evt *event.Event, date time.Time) time.Time {
	hour, minute := 9, 0
	if len(evt.Time) == 5 {
		fmt.Sscanf(evt.Time, "%d:%d", &hour, &minute)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
