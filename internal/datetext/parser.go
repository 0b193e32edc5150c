// Package datetext extracts calendar dates from free-form scanned text, such
// as "BEST BY 03/04/26" printed on packaging. Recognition upstream is assumed
// correct; this package only interprets the resulting string.
package datetext

import (
	"regexp"
	"strings"
	"time"
)

// Patterns are tried in priority order and the first one that matches anywhere
// in the input wins — even when a later pattern would also match. No attempt
// is made to find a "best" match.
var patterns = []*regexp.Regexp{
	// ISO: 2026-03-05
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	// Slash: 3/5/26 or 03/05/2026
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/(?:\d{4}|\d{2})\b`),
	// Labeled: "Best by March 5, 2026" (label separators vary on packaging)
	regexp.MustCompile(`(?i)\bbest\s*by[\s:-]*[A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4}`),
}

var labelRe = regexp.MustCompile(`(?i)^best\s*by[\s:-]*`)

// Layouts are tried in order against the cleaned substring. Fixed English
// month names, so device locale never changes the interpretation. Two-digit
// years follow time.Parse's pivot: 69-99 resolve to 19xx, 00-68 to 20xx.
var layouts = []string{
	"2006-01-02",
	"1/2/06",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseFirstDate extracts the first plausible calendar date from text.
// The boolean is false when no pattern matches or the matched substring fails
// every layout — both are normal outcomes, never errors. The local time zone
// supplies the day boundary of the returned date.
func ParseFirstDate(text string) (time.Time, bool) {
	for _, p := range patterns {
		match := p.FindString(text)
		if match == "" {
			continue
		}
		cleaned := strings.TrimSpace(labelRe.ReplaceAllString(match, ""))
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, cleaned, time.Local); err == nil {
				return t, true
			}
		}
		// The priority pattern matched but parsed to nothing: stop here,
		// later patterns are intentionally not consulted.
		return time.Time{}, false
	}
	return time.Time{}, false
}
