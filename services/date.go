package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the storage format for pickup dates (HTML5 date inputs)
	DateLayout = "2006-01-02"
	// PickupDisplayLayout renders as "Mon - Jan 02"
	PickupDisplayLayout = "Mon - Jan 02"
)

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
func ParseDate(dateStr string) (time.Time, error) {
	parsedTime, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// FormatPickupDate renders a stored pickup date for the board. Unparseable input is returned unchanged.
func FormatPickupDate(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	t, err := ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	return t.Format(PickupDisplayLayout)
}

// IsBeforeDay reports whether dateStr names a calendar day strictly before now's day
func IsBeforeDay(dateStr string, now time.Time) bool {
	t, err := ParseDate(dateStr)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return t.Before(today)
}
