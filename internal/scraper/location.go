package scraper

import (
	"regexp"
	"strings"
)

// locationIndicators prefix the venue in prose ("Where: the park pavilion").
var locationIndicators = []string{
	"location:", "venue:", "where:", "address:", "at ",
}

var (
	// chunkPattern grabs text up to sentence-ending punctuation or a newline
	chunkPattern = regexp.MustCompile(`^([^.!?\n]+)`)

	// addressPattern matches US street addresses like "233 Oak Street, Denver, CO"
	addressPattern = regexp.MustCompile(`\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr)(?:[,\s]+[A-Za-z\s]+(?:,\s*[A-Z]{2})?)?`)
)

// ExtractLocation pulls a venue or address out of free text. It tries the
// indicator prefixes first, then falls back to a street-address pattern.
// Returns empty when nothing location-like is found.
func ExtractLocation(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	for _, indicator := range locationIndicators {
		idx := strings.Index(lower, indicator)
		if idx < 0 {
			continue
		}
		after := strings.TrimSpace(text[idx+len(indicator):])
		if m := chunkPattern.FindStringSubmatch(after); m != nil {
			loc := strings.TrimSpace(m[1])
			if loc != "" {
				return loc
			}
		}
	}

	if m := addressPattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}
