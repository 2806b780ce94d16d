// Package settings holds the user's notification preferences and the derived
// "should this alert make noise right now" predicates.
package settings

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"luna/internal/kv"
	"luna/internal/quiethours"
	"luna/internal/sound"

	"go.uber.org/zap"
)

// ErrInvalidSettings is returned by Update for a patch that fails validation.
var ErrInvalidSettings = errors.New("invalid notification settings")

// NotificationSettings is the persisted preference record. JSON names match
// the stored format.
type NotificationSettings struct {
	SoundEnabled         bool    `json:"soundEnabled"`
	VibrationEnabled     bool    `json:"vibrationEnabled"`
	NotificationsEnabled bool    `json:"notificationsEnabled"`
	DefaultSoundType     string  `json:"defaultSoundType"`
	RemindersEnabled     bool    `json:"remindersEnabled"`
	SleepAlertsEnabled   bool    `json:"sleepAlertsEnabled"`
	CycleAlertsEnabled   bool    `json:"cycleAlertsEnabled"`
	QuietHoursEnabled    bool    `json:"quietHoursEnabled"`
	QuietHoursStart      string  `json:"quietHoursStart"`
	QuietHoursEnd        string  `json:"quietHoursEnd"`
	NotificationVolume   float64 `json:"notificationVolume"`
}

// Defaults returns the settings used on first run.
func Defaults() NotificationSettings {
	return NotificationSettings{
		SoundEnabled:         true,
		VibrationEnabled:     true,
		NotificationsEnabled: true,
		DefaultSoundType:     sound.Gentle,
		RemindersEnabled:     true,
		SleepAlertsEnabled:   true,
		CycleAlertsEnabled:   true,
		QuietHoursEnabled:    false,
		QuietHoursStart:      "22:00",
		QuietHoursEnd:        "07:00",
		NotificationVolume:   0.5,
	}
}

// QuietHours returns the configured quiet-hours window.
func (s NotificationSettings) QuietHours() quiethours.Window {
	return quiethours.Window{
		Enabled: s.QuietHoursEnabled,
		Start:   s.QuietHoursStart,
		End:     s.QuietHoursEnd,
	}
}

// IsQuietHours reports whether alerting is suppressed at now.
func (s NotificationSettings) IsQuietHours(now time.Time) bool {
	return s.QuietHours().Contains(now)
}

// ShouldPlaySound is true when sound is enabled and quiet hours do not apply.
func (s NotificationSettings) ShouldPlaySound(now time.Time) bool {
	return s.SoundEnabled && !s.IsQuietHours(now)
}

// ShouldVibrate is true when vibration is enabled and quiet hours do not apply.
func (s NotificationSettings) ShouldVibrate(now time.Time) bool {
	return s.VibrationEnabled && !s.IsQuietHours(now)
}

// Store persists NotificationSettings under kv.KeySettings and keeps the
// current value in memory.
type Store struct {
	mu      sync.RWMutex
	kv      kv.Store
	log     *zap.Logger
	current NotificationSettings
	// gen counts local updates; Reload drops a read that raced one.
	gen uint64
}

// NewStore loads the persisted settings from db.
func NewStore(db kv.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{kv: db, log: log}
	s.current = s.read()
	return s
}

// read returns the stored record merged over Defaults. Fields absent from the
// stored JSON keep their default; unreadable data yields Defaults.
func (s *Store) read() NotificationSettings {
	cur := Defaults()
	err := kv.LoadJSON(s.kv, kv.KeySettings, &cur)
	switch {
	case err == nil:
	case errors.Is(err, kv.ErrNotFound):
		return Defaults()
	case errors.Is(err, kv.ErrRecovered):
		s.log.Warn("notification settings recovered from previous value", zap.Error(err))
	default:
		s.log.Error("loading notification settings, using defaults", zap.Error(err))
		return Defaults()
	}

	if err := cur.validate(); err != nil {
		s.log.Warn("stored notification settings invalid, using defaults", zap.Error(err))
		return Defaults()
	}
	return cur
}

// Load returns the current settings.
func (s *Store) Load() NotificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Snapshot is Load under the name schedulers use: a copy that later updates
// do not affect.
func (s *Store) Snapshot() NotificationSettings {
	return s.Load()
}

// Reload re-reads the persisted record, picking up writes made by another
// process. A read that raced a local Update is discarded in favour of the
// newer in-memory value.
func (s *Store) Reload() NotificationSettings {
	s.mu.RLock()
	start := s.gen
	s.mu.RUnlock()

	next := s.read()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != start {
		s.log.Debug("discarding stale settings reload")
		return s.current
	}
	s.current = next
	return next
}

// Update merges patch into the current settings and persists the result. An
// invalid patch is rejected and nothing changes.
func (s *Store) Update(patch Patch) (NotificationSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.current)
	if err := next.validate(); err != nil {
		return s.current, err
	}
	if err := kv.SaveJSON(s.kv, kv.KeySettings, next); err != nil {
		return s.current, fmt.Errorf("save notification settings: %w", err)
	}
	s.current = next
	s.gen++
	s.log.Debug("notification settings updated", zap.Strings("fields", patch.Fields()))
	return next, nil
}

// IsQuietHours reports whether the current settings suppress alerts at now.
func (s *Store) IsQuietHours(now time.Time) bool {
	return s.Load().IsQuietHours(now)
}

// ShouldPlaySound applies the current settings at now.
func (s *Store) ShouldPlaySound(now time.Time) bool {
	return s.Load().ShouldPlaySound(now)
}

// ShouldVibrate applies the current settings at now.
func (s *Store) ShouldVibrate(now time.Time) bool {
	return s.Load().ShouldVibrate(now)
}

func (s NotificationSettings) validate() error {
	if !sound.Valid(s.DefaultSoundType) {
		return fmt.Errorf("%w: default sound %q is not a known profile", ErrInvalidSettings, s.DefaultSoundType)
	}
	if _, err := quiethours.ParseClock(s.QuietHoursStart); err != nil {
		return fmt.Errorf("%w: quiet hours start: %v", ErrInvalidSettings, err)
	}
	if _, err := quiethours.ParseClock(s.QuietHoursEnd); err != nil {
		return fmt.Errorf("%w: quiet hours end: %v", ErrInvalidSettings, err)
	}
	if math.IsNaN(s.NotificationVolume) || s.NotificationVolume < 0 || s.NotificationVolume > 1 {
		return fmt.Errorf("%w: volume %.2f outside 0-1", ErrInvalidSettings, s.NotificationVolume)
	}
	return nil
}
