// Package timeutil holds the calendar-date and wall-clock helpers shared by the
// schedules and bookings services. Dates travel as "YYYY-MM-DD" strings and
// times of day as "HH:MM" strings; arithmetic is done on minutes since midnight.
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	MinutesPerDay = 24 * 60
	EndOfDay      = "24:00"
)

var (
	ErrInvalidDate  = errors.New("date must be a valid calendar date in YYYY-MM-DD format")
	ErrInvalidClock = errors.New("time must be in HH:MM 24-hour format")
)

var clockRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock returns the minutes since midnight for a "HH:MM" value in 00:00-23:59.
func ParseClock(s string) (int, error) {
	m := clockRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes, nil
}

// ParseBoundary is ParseClock that also accepts "24:00" as an end-of-day bound.
func ParseBoundary(s string) (int, error) {
	if strings.TrimSpace(s) == EndOfDay {
		return MinutesPerDay, nil
	}
	return ParseClock(s)
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock re-renders a time of day as "HH:MM" ("9:00" -> "09:00").
func NormalizeClock(s string) (string, error) {
	minutes, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(minutes), nil
}

// IsClock reports whether s is a valid "HH:MM" time of day.
func IsClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date at midnight in loc. Surrounding
// whitespace is rejected: dates are stored and compared as given.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// IsDate reports whether s is a valid "YYYY-MM-DD" calendar date.
func IsDate(s string) bool {
	_, err := ParseDate(s, time.UTC)
	return err == nil
}

// Today returns the calendar date of now as observed in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// MinuteOfDay returns the wall-clock minutes since midnight of now in loc.
func MinuteOfDay(now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	t := now.In(loc)
	return t.Hour()*60 + t.Minute()
}

// CompareDate orders date against today: -1 past, 0 today, 1 future.
// Both values must be valid "YYYY-MM-DD" strings, which sort lexically.
func CompareDate(date, today string) int {
	return strings.Compare(date, today)
}

// LoadLocation resolves an IANA zone name, treating "" as UTC.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
