package brl

import (
	"strings"
	"time"
)

// UnknownDays is returned by DaysSince for undated records so they sort last
// in most-recent-first orderings instead of being excluded.
const UnknownDays = 9999

// datePatterns is an ordered precedence list: day-first numeric formats are
// tried before ISO so "03/04/2024" resolves to April 3rd, not March 4th.
var datePatterns = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate tries each known pattern in order and returns the first match.
// Sub-second fragments are truncated before matching. The second return is
// false when no pattern matches; that is not an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return time.Time{}, false
	}

	// Truncate a fractional-seconds tail like "10:20:30.123456".
	if i := strings.LastIndex(s, "."); i > 0 && strings.Contains(s[:i], ":") {
		s = s[:i]
	}

	for _, pattern := range datePatterns {
		if t, err := time.Parse(pattern, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysSince returns whole days between t and now. The zero time (an unknown
// date) yields UnknownDays; future dates clamp to 0.
func DaysSince(t time.Time, now time.Time) int {
	if t.IsZero() {
		return UnknownDays
	}
	days := int(now.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
