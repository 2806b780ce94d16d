package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	SoundEnabled         *bool
	VibrationEnabled     *bool
	NotificationsEnabled *bool
	DefaultSoundType     *string
	RemindersEnabled     *bool
	SleepAlertsEnabled   *bool
	CycleAlertsEnabled   *bool
	QuietHoursEnabled    *bool
	QuietHoursStart      *string
	QuietHoursEnd        *string
	NotificationVolume   *float64
}

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// Apply returns base with every non-nil field of p written over it.
func (p Patch) Apply(base NotificationSettings) NotificationSettings {
	setBool(&base.SoundEnabled, p.SoundEnabled)
	setBool(&base.VibrationEnabled, p.VibrationEnabled)
	setBool(&base.NotificationsEnabled, p.NotificationsEnabled)
	setBool(&base.RemindersEnabled, p.RemindersEnabled)
	setBool(&base.SleepAlertsEnabled, p.SleepAlertsEnabled)
	setBool(&base.CycleAlertsEnabled, p.CycleAlertsEnabled)
	setBool(&base.QuietHoursEnabled, p.QuietHoursEnabled)
	if p.DefaultSoundType != nil {
		base.DefaultSoundType = *p.DefaultSoundType
	}
	if p.QuietHoursStart != nil {
		base.QuietHoursStart = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		base.QuietHoursEnd = *p.QuietHoursEnd
	}
	if p.NotificationVolume != nil {
		base.NotificationVolume = *p.NotificationVolume
	}
	return base
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Fields lists the stored names of the fields p sets.
func (p Patch) Fields() []string {
	var out []string
	for _, f := range fields {
		if f.isSet(p) {
			out = append(out, f.name)
		}
	}
	return out
}

type field struct {
	name  string
	isSet func(Patch) bool
	set   func(*Patch, string) error
}

func boolField(name string, ptr func(*Patch) **bool) field {
	return field{
		name:  name,
		isSet: func(p Patch) bool { return *ptr(&p) != nil },
		set: func(p *Patch, raw string) error {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%s: want true or false, got %q", name, raw)
			}
			*ptr(p) = &v
			return nil
		},
	}
}

func stringField(name string, ptr func(*Patch) **string) field {
	return field{
		name:  name,
		isSet: func(p Patch) bool { return *ptr(&p) != nil },
		set: func(p *Patch, raw string) error {
			*ptr(p) = &raw
			return nil
		},
	}
}

var fields = []field{
	boolField("soundEnabled", func(p *Patch) **bool { return &p.SoundEnabled }),
	boolField("vibrationEnabled", func(p *Patch) **bool { return &p.VibrationEnabled }),
	boolField("notificationsEnabled", func(p *Patch) **bool { return &p.NotificationsEnabled }),
	stringField("defaultSoundType", func(p *Patch) **string { return &p.DefaultSoundType }),
	boolField("remindersEnabled", func(p *Patch) **bool { return &p.RemindersEnabled }),
	boolField("sleepAlertsEnabled", func(p *Patch) **bool { return &p.SleepAlertsEnabled }),
	boolField("cycleAlertsEnabled", func(p *Patch) **bool { return &p.CycleAlertsEnabled }),
	boolField("quietHoursEnabled", func(p *Patch) **bool { return &p.QuietHoursEnabled }),
	stringField("quietHoursStart", func(p *Patch) **string { return &p.QuietHoursStart }),
	stringField("quietHoursEnd", func(p *Patch) **string { return &p.QuietHoursEnd }),
	{
		name:  "notificationVolume",
		isSet: func(p Patch) bool { return p.NotificationVolume != nil },
		set: func(p *Patch, raw string) error {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("notificationVolume: want a number between 0 and 1, got %q", raw)
			}
			p.NotificationVolume = &v
			return nil
		},
	},
}

// FieldNames lists every settable field in stored order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// ParsePatch builds a patch from "name=value" assignments, as typed on the
// command line. Names match case-insensitively and may use dashes or
// underscores ("quiet-hours-start").
func ParsePatch(assignments []string) (Patch, error) {
	var p Patch
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return Patch{}, fmt.Errorf("%w: %q is not name=value", ErrInvalidSettings, a)
		}
		f, ok := lookupField(name)
		if !ok {
			return Patch{}, fmt.Errorf("%w: unknown setting %q", ErrInvalidSettings, name)
		}
		if err := f.set(&p, strings.TrimSpace(value)); err != nil {
			return Patch{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
	}
	return p, nil
}

func lookupField(name string) (field, bool) {
	norm := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	for _, f := range fields {
		if strings.ToLower(f.name) == norm {
			return f, true
		}
	}
	return field{}, false
}
