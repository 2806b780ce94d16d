// Package sleep runs the two daily sleep alerts, bedtime and wakeup, which
// fire when the wall clock reaches their configured minute.
package sleep

import (
	"errors"
	"fmt"

	"luna/internal/quiethours"
	"luna/internal/sound"
)

// Kind is the role of a sleep alert. It doubles as the alert id.
type Kind string

const (
	Bedtime Kind = "bedtime"
	Wakeup  Kind = "wakeup"
)

// Field names a boolean flag that Toggle can flip.
type Field string

const (
	FieldEnabled   Field = "enabled"
	FieldSound     Field = "sound"
	FieldVibration Field = "vibration"
)

// stampLayout identifies the minute an alert last fired.
const stampLayout = "2006-01-02T15:04"

var (
	// ErrNotFound is returned for an id other than bedtime or wakeup.
	ErrNotFound = errors.New("sleep alert not found")
	// ErrUnknownField is returned by Toggle for a field that is not a flag.
	ErrUnknownField = errors.New("unknown sleep alert field")
)

// Alert is one daily sleep alert.
type Alert struct {
	ID        string `json:"id"`
	Type      Kind   `json:"type"`
	Time      string `json:"time"`
	Enabled   bool   `json:"enabled"`
	Sound     bool   `json:"sound"`
	SoundType string `json:"soundType"`
	Vibration bool   `json:"vibration"`
	LastFired string `json:"lastFired,omitempty"`
}

// Defaults returns bedtime at 22:00 and wakeup at 07:00, everything on.
func Defaults() []Alert {
	return []Alert{
		{ID: string(Bedtime), Type: Bedtime, Time: "22:00", Enabled: true, Sound: true, SoundType: sound.Soft, Vibration: true},
		{ID: string(Wakeup), Type: Wakeup, Time: "07:00", Enabled: true, Sound: true, SoundType: sound.Gentle, Vibration: true},
	}
}

// Title is the notification heading for a.
func (a Alert) Title() string {
	if a.Type == Wakeup {
		return "Wake up"
	}
	return "Bedtime"
}

// Body is the notification text for a.
func (a Alert) Body() string {
	if a.Type == Wakeup {
		return "Good morning! Time to start your day."
	}
	return "Time to wind down for sleep."
}

func (a *Alert) toggle(f Field) error {
	switch f {
	case FieldEnabled:
		a.Enabled = !a.Enabled
	case FieldSound:
		a.Sound = !a.Sound
	case FieldVibration:
		a.Vibration = !a.Vibration
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// repair returns exactly the two default alerts, each overlaid with the
// stored alert of the same id where its values are usable. changed reports
// whether the result differs from stored.
func repair(stored []Alert) (alerts []Alert, changed bool) {
	byID := make(map[string]Alert, len(stored))
	for _, a := range stored {
		byID[a.ID] = a
	}

	alerts = Defaults()
	for i, def := range alerts {
		a, ok := byID[def.ID]
		if !ok {
			changed = true
			continue
		}
		if a.Type != def.Type {
			a.Type = def.Type
			changed = true
		}
		if t, err := quiethours.NormalizeClock(a.Time); err != nil {
			a.Time = def.Time
			changed = true
		} else if t != a.Time {
			a.Time = t
			changed = true
		}
		if !sound.Valid(a.SoundType) {
			a.SoundType = def.SoundType
			changed = true
		}
		alerts[i] = a
	}
	if len(stored) != len(alerts) {
		changed = true
	}
	return alerts, changed
}
