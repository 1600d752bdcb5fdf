// Package duedate normalizes Gradescope's free-form due-date text into
// absolute timestamps.
package duedate

import (
	"regexp"
	"strings"
	"time"
)

// layouts is the ordered list of formats attempted against due-date text.
// Order is significant: the first layout that parses wins, so text that
// could match more than one layout resolves the same way on every run.
var layouts = []string{
	time.RFC3339,                // 2026-01-15T23:59:00-05:00
	"2006-01-02T15:04:05",       // ISO without an offset
	"Jan 2, 2006 3:04 PM",       // Jan 15, 2026 11:59 PM
	"Jan 2, 2006 3:04PM",        // Jan 15, 2026 11:59PM
	"January 2, 2006 3:04 PM",   // January 15, 2026 11:59 PM
	"Jan 2, 2006 at 3:04PM",     // Jan 15, 2026 at 11:59PM
	"1/2/2006 3:04 PM",          // 01/15/2026 11:59 PM
	"1/2/2006 15:04",            // 01/15/2026 23:59
	"2006-01-02 15:04:05 -0700", // 2026-01-15 23:59:00 -0500 (time element attribute)
}

// spanPatterns extract a candidate date span from text that doesn't
// parse verbatim, such as "Late Due Date: Jan 17, 2026 11:59 PM".
// The layouts are then re-attempted against only the extracted span.
var spanPatterns = []*regexp.Regexp{
	// English long-form date/time span
	regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2},?\s+\d{4}(\s+at)?\s+\d{1,2}:\d{2}\s*(am|pm)?`),
	// ISO date/time span, with or without an offset
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2})?( ?[+-]\d{2}:?\d{2})?`),
}

// Normalize converts due-date text into a time.Time. Each layout is
// attempted in order and the first success is returned; if none match
// verbatim, a candidate span is extracted via spanPatterns and the full
// layout list is re-attempted against the span alone. Returns the zero
// time when nothing parses, which is an expected outcome: assignments
// without a due date route to a skip, not an error.
//
// Layouts without a UTC offset parse as civil times (location UTC); the
// calendar layer pins those to the display timezone. Text carrying its
// own offset keeps it.
func Normalize(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}

	if t, ok := parseLayouts(text); ok {
		return t
	}

	for _, pat := range spanPatterns {
		span := strings.TrimSpace(pat.FindString(text))
		if span == "" {
			continue
		}
		if t, ok := parseLayouts(span); ok {
			return t
		}
	}

	return time.Time{}
}

// parseLayouts short-circuits on the first layout that parses.
func parseLayouts(text string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
