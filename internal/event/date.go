package event

import "time"

// ParseDate parses a normalized event date (YYYY-MM-DD).
// Returns time.Time{} (zero value) if the date is empty or malformed.
func ParseDate(date string) time.Time {
	if date == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsPast reports whether the event's date has already passed.
// Undated events are never considered past (safer default).
func (e *Event) IsPast(now time.Time) bool {
	parsed := ParseDate(e.Date)
	if parsed.IsZero() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return parsed.Before(today)
}
