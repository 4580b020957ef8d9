package planner

import (
	"strconv"
	"strings"
)

// Time constants used across the planner.
const (
	// SecondsPerDay is the number of seconds in one day.
	SecondsPerDay = 24 * 3600

	// DefaultDurationSeconds is the fallback used when a duration string
	// cannot be parsed: one day.
	DefaultDurationSeconds = SecondsPerDay
)

// ParseDuration converts a human-entered duration string into seconds.
// Three shapes are supported:
//
//   - "H:MM:SS" clock strings, e.g. "2:30:00" -> 9000
//   - day counts containing the token "day", e.g. "3 days" -> 259200
//   - bare integers, interpreted as seconds
//
// ParseDuration is total: malformed input degrades to
// DefaultDurationSeconds instead of returning an error, so a bad
// duration never blocks plan creation.
func ParseDuration(s string) int {
	s = strings.TrimSpace(s)

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) == 3 {
			hours, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
			minutes, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
			seconds, errS := strconv.Atoi(strings.TrimSpace(parts[2]))
			if errH == nil && errM == nil && errS == nil {
				return hours*3600 + minutes*60 + seconds
			}
		}
		return DefaultDurationSeconds
	}

	if strings.Contains(s, "day") {
		days := leadingInt(s)
		if days > 0 {
			return days * SecondsPerDay
		}
		return DefaultDurationSeconds
	}

	if seconds, err := strconv.Atoi(s); err == nil && seconds > 0 {
		return seconds
	}
	return DefaultDurationSeconds
}

// leadingInt parses the integer prefix of s, mirroring how parseInt
// behaves on strings like "3 days".
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// DaySpan returns the number of whole days needed to cover the given
// duration in seconds, with a minimum of one day.
func DaySpan(totalDurationSeconds int) int {
	days := (totalDurationSeconds + SecondsPerDay - 1) / SecondsPerDay
	if days < 1 {
		days = 1
	}
	return days
}
