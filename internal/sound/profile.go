// Package sound synthesizes luna's notification cues and owns the audio
// output they play through.
package sound

import (
	"errors"
	"fmt"
)

// Waveform is the oscillator shape of a profile.
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Triangle Waveform = "triangle"
)

// Profile describes one notification sound. Each Pattern entry is played as a
// separate tone of Duration, back to back, scaled by that entry.
type Profile struct {
	Name      string
	Waveform  Waveform
	Frequency float64 // Hz
	Duration  int     // ms per tone
	Gain      float64 // peak linear gain, 0-1
	Pattern   []float64
}

// Built-in profile names.
const (
	Gentle = "gentle"
	Chime  = "chime"
	Alert  = "alert"
	Soft   = "soft"
	Bell   = "bell"
)

// ErrUnknownProfile is returned for a profile name that is not built in.
var ErrUnknownProfile = errors.New("unknown sound profile")

var profiles = []Profile{
	{Name: Gentle, Waveform: Sine, Frequency: 440, Duration: 200, Gain: 0.1, Pattern: []float64{1}},
	{Name: Chime, Waveform: Sine, Frequency: 880, Duration: 150, Gain: 0.1, Pattern: []float64{1, 0.5, 1}},
	{Name: Alert, Waveform: Square, Frequency: 660, Duration: 100, Gain: 0.08, Pattern: []float64{1, 1, 1}},
	{Name: Soft, Waveform: Triangle, Frequency: 520, Duration: 300, Gain: 0.12, Pattern: []float64{1}},
	{Name: Bell, Waveform: Sine, Frequency: 784, Duration: 200, Gain: 0.1, Pattern: []float64{1, 0.7, 0.4}},
}

// Lookup returns the built-in profile called name.
func Lookup(name string) (Profile, error) {
	for _, p := range profiles {
		if p.Name == name {
			// Copy the pattern so callers cannot mutate the table.
			p.Pattern = append([]float64(nil), p.Pattern...)
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Valid reports whether name is a built-in profile.
func Valid(name string) bool {
	_, err := Lookup(name)
	return err == nil
}

// Names lists the built-in profiles in display order.
func Names() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return names
}

// TotalDuration is the playback length of every tone in the pattern, in ms.
func (p Profile) TotalDuration() int {
	return p.Duration * len(p.Pattern)
}
