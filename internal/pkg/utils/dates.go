package utils

import (
	"fmt"
	"strings"
	"time"
)

// feed layouts seen in practice; the regulatory feed mostly uses ISO dates
// but older archive dumps carry US-style ones.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"Jan 02, 2006",
}

// ParseDate normalizes a raw date field: empty strings become nil (never an
// empty-string date inside the core), anything unparsable is an error the
// caller turns into a data-quality warning.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, fmt.Errorf("unparsable date %q", raw)
}

// Day truncates t to midnight UTC so interval arithmetic works in whole days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// FormatDate renders a nullable date for dedup keys and storage; nil and
// empty are deliberately the same key token.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
