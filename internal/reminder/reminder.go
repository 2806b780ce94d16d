// Package reminder keeps the user's one-shot reminders and fires each of them
// exactly once when its due time passes.
package reminder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"luna/internal/quiethours"
	"luna/internal/sound"
)

const (
	// DefaultIcon is shown next to reminders created without one.
	DefaultIcon = "⏰"
	// DefaultLead is how far ahead a reminder is due when no time is given.
	DefaultLead = 30 * time.Minute

	maxTitleLen = 200
	maxIconLen  = 12
)

var (
	// ErrInvalidReminder is returned for a reminder that cannot be scheduled.
	ErrInvalidReminder = errors.New("invalid reminder")
	// ErrNotFound is returned when no reminder has the requested id.
	ErrNotFound = errors.New("reminder not found")
)

// Reminder is a one-shot alert at an absolute time.
type Reminder struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Time      time.Time `json:"time"`
	Icon      string    `json:"icon"`
	Sound     bool      `json:"sound"`
	SoundType string    `json:"soundType,omitempty"`
	Vibration bool      `json:"vibration"`
}

// New returns a reminder with the default icon, sound and vibration.
func New(title string, due time.Time) Reminder {
	return Reminder{
		Title:     title,
		Time:      due,
		Icon:      DefaultIcon,
		Sound:     true,
		SoundType: sound.Gentle,
		Vibration: true,
	}
}

// Due reports whether r should have fired by now.
func (r Reminder) Due(now time.Time) bool {
	return !r.Time.After(now)
}

// Body is the notification text shown when r fires.
func (r Reminder) Body() string {
	return "Time for: " + r.Title
}

// normalize trims and validates r in place.
func (r *Reminder) normalize() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Icon = strings.TrimSpace(r.Icon)

	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidReminder)
	}
	if len(r.Title) > maxTitleLen {
		return fmt.Errorf("%w: title too long (max %d)", ErrInvalidReminder, maxTitleLen)
	}
	if r.Time.IsZero() {
		return fmt.Errorf("%w: due time is required", ErrInvalidReminder)
	}
	if r.Icon == "" {
		r.Icon = DefaultIcon
	}
	if len(r.Icon) > maxIconLen {
		return fmt.Errorf("%w: icon too long (max %d)", ErrInvalidReminder, maxIconLen)
	}
	if r.SoundType == "" {
		r.SoundType = sound.Gentle
	}
	if !sound.Valid(r.SoundType) {
		return fmt.Errorf("%w: unknown sound %q", ErrInvalidReminder, r.SoundType)
	}
	return nil
}

// RemainingTime describes when due is relative to now: "Now" once it has
// passed, "in N minutes" within the hour, otherwise the wall-clock time.
func RemainingTime(due, now time.Time) string {
	diff := due.Sub(now)
	if diff <= 0 {
		return "Now"
	}
	minutes := int(diff / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("in %d minutes", minutes)
	}
	return "at " + due.In(now.Location()).Format("3:04 PM")
}

// ParseDue reads a due time typed by the user. It accepts an RFC 3339
// timestamp, a clock time (today, or tomorrow if already past) or a duration
// from now such as "+45m". Empty input means DefaultLead from now.
func ParseDue(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return now.Add(DefaultLead), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	if m, err := quiethours.ParseClock(s); err == nil {
		y, mo, d := now.Date()
		t := time.Date(y, mo, d, m/60, m%60, 0, 0, now.Location())
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}

	if d, err := time.ParseDuration(strings.TrimPrefix(s, "+")); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("%w: %q is in the past", ErrInvalidReminder, input)
		}
		return now.Add(d), nil
	}

	return time.Time{}, fmt.Errorf("%w: cannot parse due time %q", ErrInvalidReminder, input)
}
