// Package quiethours decides whether alerting is suppressed at a given time
// of day. Times of day are minutes since midnight; windows may wrap midnight.
package quiethours

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of distinct minute-of-day values.
const MinutesPerDay = 24 * 60

// ErrBadClock is returned by ParseClock for anything that is not "HH:MM".
var ErrBadClock = errors.New("time of day must be HH:MM (24-hour)")

// InWindow reports whether now falls inside [start, end]. When start > end the
// window wraps midnight (22:00-07:00). Both bounds are inclusive.
func InWindow(start, end, now int) bool {
	if start <= end {
		return now >= start && now <= end
	}
	return now >= start || now <= end
}

// Window is a configured quiet-hours window.
type Window struct {
	Enabled bool
	Start   string // "HH:MM"
	End     string // "HH:MM"
}

// Contains reports whether alerting is suppressed at t. A disabled window or
// one with malformed bounds never suppresses.
func (w Window) Contains(t time.Time) bool {
	if !w.Enabled {
		return false
	}
	start, err := ParseClock(w.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(w.End)
	if err != nil {
		return false
	}
	return InWindow(start, end, MinuteOfDay(t))
}

// ParseClock converts "HH:MM" to minutes since midnight. Single-digit hours
// ("7:05") are accepted; minutes must have two digits.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("%q: %w", s, ErrBadClock)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%q: %w", s, ErrBadClock)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%q: %w", s, ErrBadClock)
	}
	return hours*60 + minutes, nil
}

// NormalizeClock parses s and returns it in canonical zero-padded form.
func NormalizeClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay returns the wall-clock minute of t in its own location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
