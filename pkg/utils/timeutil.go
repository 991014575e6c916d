package utils

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for flight timestamps. The first match wins.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DATE_LAYOUT,
}

// ParseTimestamp parses a takeoff/landing value. Values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a calendar date and drops any time of day
func ParseDate(value string) (time.Time, bool) {
	t, ok := ParseTimestamp(value)
	if !ok {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// MinutesToHHMM formats minutes as H:MM
func MinutesToHHMM(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%d:%02d", mins/60, mins%60)
}

// FormatDateTime12 renders a timestamp as MM/DD/YYYY hh:mm AM/PM.
// Unparseable input yields an empty string.
func FormatDateTime12(value string) string {
	t, ok := ParseTimestamp(value)
	if !ok {
		return ""
	}
	return t.Format(DATETIME12_LAYOUT)
}

// FormatDateMMDD renders a date as MM/DD/YYYY
func FormatDateMMDD(value string) string {
	t, ok := ParseDate(value)
	if !ok {
		return ""
	}
	return t.Format(DATE_DISPLAY_LAYOUT)
}
