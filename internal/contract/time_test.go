package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

// TestParseRelativeTimeUnit covers various valid and invalid cases.
func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "valid plural months (mixed case)",
			input:    "3 MoNtHs AgO",
			expected: fixedNow.AddDate(0, -3, 0),
		},
		{
			name:     "valid singular week (capitalized)",
			input:    "1 Week Ago",
			expected: fixedNow.AddDate(0, 0, -7),
		},
		{
			name:     "valid 10 days (upper case)",
			input:    "10 DAYS AGO",
			expected: fixedNow.AddDate(0, 0, -10),
		},
		{
			name:        "invalid missing ago",
			input:       "2 years",
			expectError: true,
		},
		{
			name:        "invalid sub-day unit",
			input:       "4 hours ago",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one year ago",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tResult, err := ParseRelativeTime(tt.input, fixedNow)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, tResult, "Parsed time mismatch")
			}
		})
	}
}

func TestParseDayInput(t *testing.T) {
	today := time.Date(2026, 3, 18, 9, 30, 0, 0, time.UTC)
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"empty means today", "", day(3, 18), false},
		{"keyword today", "Today", day(3, 18), false},
		{"absolute day", "2026-02-01", day(2, 1), false},
		{"relative weeks", "2 weeks ago", day(3, 4), false},
		{"relative month", "1 month ago", day(2, 18), false},
		{"garbage", "yesterday-ish", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayInput(tt.input, today)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClocks(t *testing.T) {
	fixed := FixedClock{Day: time.Date(2026, 3, 18, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), fixed.Today())

	sys := SystemClock{}.Today()
	assert.Zero(t, sys.Hour())
	assert.Equal(t, time.UTC, sys.Location())
}
