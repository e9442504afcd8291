package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// numericDatePattern matches MM/DD/YYYY and MM-DD-YYYY
	numericDatePattern = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](20\d{2})`)

	// monthDatePattern matches "March 14, 2026", "Mar 14 2026", "June 2nd, 2026"
	monthDatePattern = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(20\d{2})`)

	// isoDatePattern matches already-normalized dates
	isoDatePattern = regexp.MustCompile(`(20\d{2})-(\d{2})-(\d{2})`)

	// timePattern matches "7:30", "7:30 pm", "10:00AM"
	timePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})(?:\s*([ap]m|[AP]M))?`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ExtractDateTime finds the first recognizable date in free text and
// returns it normalized to YYYY-MM-DD, along with a 24h HH:MM time when one
// appears nearby. Both are empty when no date is found; the time is empty
// when only a date is present.
func ExtractDateTime(text string) (string, string) {
	if text == "" {
		return "", ""
	}
	text = collapseSpace(text)

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if date := validDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); date != "" {
			return date, extractTime(text)
		}
	}

	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		if date := validDate(atoi(m[3]), atoi(m[1]), atoi(m[2])); date != "" {
			return date, extractTime(text)
		}
	}

	if m := monthDatePattern.FindStringSubmatch(text); m != nil {
		month := monthNumbers[strings.ToLower(m[1])[:3]]
		if date := validDate(atoi(m[3]), month, atoi(m[2])); date != "" {
			return date, extractTime(text)
		}
	}

	return "", ""
}

// extractTime finds an HH:MM time in text, converting 12h am/pm notation to
// 24h. Returns empty when no time pattern appears.
func extractTime(text string) string {
	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	hour := atoi(m[1])
	minute := atoi(m[2])
	if hour > 23 || minute > 59 {
		return ""
	}

	ampm := strings.ToLower(m[3])
	if ampm == "pm" && hour < 12 {
		hour += 12
	}
	if ampm == "am" && hour == 12 {
		hour = 0
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// validDate formats a year/month/day triple, rejecting impossible dates
// like 13/45/2026 that the loose regexes can momentarily accept.
func validDate(year, month, day int) string {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return ""
	}
	return t.Format("2006-01-02")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
