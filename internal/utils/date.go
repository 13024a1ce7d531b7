package utils

import (
	"strings"
	"time"

	"fieldops/internal/lifecycle"
)

// ParseScheduledDate accepts an RFC3339 timestamp or a bare YYYY-MM-DD date,
// which is read as midnight UTC.
func ParseScheduledDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, lifecycle.Invalid("scheduledDate field is required")
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, input); err == nil {
		return t, nil
	}

	return time.Time{}, lifecycle.Invalid("scheduledDate %q must be RFC3339 or YYYY-MM-DD", input)
}

// ParseCalendarDate reads a report date. A timestamp keeps the calendar date
// written in its own offset; the time of day and the offset are dropped.
func ParseCalendarDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, lifecycle.Invalid("reportDate field is required")
	}

	if t, err := time.Parse(time.DateOnly, input); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, lifecycle.Invalid("reportDate %q must be YYYY-MM-DD", input)
}

// StartOfDay returns midnight UTC of the calendar day t falls on in UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
