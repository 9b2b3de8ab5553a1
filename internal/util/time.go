// Package util holds the date/time helpers shared by the storage layer,
// the grid builder and the HTTP surface.
package util

import (
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04"

// TruncateToDay drops the time-of-day part, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
// b is converted into a's location first.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseInstant parses an RFC 3339 timestamp as it appears on the wire.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// TimeOfDay formats the HH:MM part of an instant.
func TimeOfDay(t time.Time) string {
	return t.Format(timeOfDayLayout)
}

// CombineDayTime builds an instant from the calendar date of base and an
// HH:MM time-of-day value, in base's location.
func CombineDayTime(base time.Time, hhmm string) (time.Time, error) {
	tod, err := time.Parse(timeOfDayLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time of day %q: %w", hhmm, err)
	}
	return time.Date(
		base.Year(), base.Month(), base.Day(),
		tod.Hour(), tod.Minute(), 0, 0,
		base.Location(),
	), nil
}

// NormalizeRange combines two time-of-day values against the calendar date
// of base. When the combined end would not be strictly after the combined
// start, the end advances by exactly one calendar day. This is the sole
// implicit rule for resolving time-only input without an explicit end date.
func NormalizeRange(base time.Time, startHHMM, endHHMM string) (time.Time, time.Time, error) {
	start, err := CombineDayTime(base, startHHMM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := CombineDayTime(base, endHHMM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}
