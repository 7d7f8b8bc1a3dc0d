package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/orghealth/schema"
)

// Clock supplies the current day to trend and staleness calculations.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Today returns the current local calendar day as a UTC-midnight day.
func (SystemClock) Today() time.Time {
	return schema.Day(time.Now())
}

// FixedClock always reports the same day. Used by tests and --today.
type FixedClock struct {
	Day time.Time
}

// Today implements Clock.
func (c FixedClock) Today() time.Time {
	return schema.Day(c.Day)
}

// Define the regular expression to capture "N [units] ago"
// e.g., "2 years ago", "3 months ago", "1 week ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 weeks ago" into a day in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	// 1: Value (e.g., "2")
	// 2: Unit (e.g., "week")
	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value %q: %w", matches[1], err)
	}
	unit := matches[2]

	switch unit {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.AddDate(0, 0, -7*value), nil
	case "day":
		return now.AddDate(0, 0, -value), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time unit: %s", unit)
	}
}

// ParseDayInput accepts "today", an absolute YYYY-MM-DD day or "N [units] ago"
// and returns the matching day relative to today.
func ParseDayInput(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "today") {
		return schema.Day(today), nil
	}
	if t, err := schema.ParseDay(s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, schema.Day(today))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q. Expected YYYY-MM-DD, 'today' or 'N [units] ago'", s)
	}
	return schema.Day(t), nil
}
