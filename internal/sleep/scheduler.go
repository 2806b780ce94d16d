package sleep

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"luna/internal/alert"
	"luna/internal/kv"
	"luna/internal/quiethours"
	"luna/internal/settings"
	"luna/internal/sound"
)

// DefaultInterval is how often Run compares the clock with the alerts.
const DefaultInterval = time.Second

// Dispatcher delivers due alerts and previews newly chosen sounds.
type Dispatcher interface {
	Deliver(a alert.Alert, snap settings.NotificationSettings, now time.Time) alert.Outcome
	Preview(profile string, volume float64) error
}

// SettingsSource supplies the settings in force for each tick.
type SettingsSource interface {
	Snapshot() settings.NotificationSettings
}

// Scheduler owns the persisted bedtime and wakeup alerts.
type Scheduler struct {
	mu       sync.Mutex
	db       kv.Store
	dispatch Dispatcher
	log      *zap.Logger
	now      func() time.Time
	alerts   []Alert
	// gen counts local writes so Reload can discard a read that raced one.
	gen uint64
}

// NewScheduler loads the alerts from db, seeding and repairing them as
// needed.
func NewScheduler(db kv.Store, d Dispatcher, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{db: db, dispatch: d, log: log, now: time.Now}
	s.Reload()
	return s
}

// SetNowFunc overrides the clock used by Run. Passing nil resets it to
// time.Now.
func (s *Scheduler) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Now returns the current time according to the scheduler clock.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// Reload re-reads the persisted alerts. Missing, corrupt or partial data is
// replaced by the defaults and written back. A minute already fired in
// this process is never forgotten.
func (s *Scheduler) Reload() {
	s.mu.Lock()
	start := s.gen
	s.mu.Unlock()

	var stored []Alert
	err := kv.LoadJSON(s.db, kv.KeySleepAlerts, &stored)
	switch {
	case err == nil:
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrRecovered):
		s.log.Warn("sleep alerts recovered from previous value", zap.Error(err))
	default:
		s.log.Error("loading sleep alerts, using defaults", zap.Error(err))
		stored = nil
	}

	alerts, changed := repair(stored)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != start {
		s.log.Debug("discarding stale sleep alert reload")
		return
	}
	for i := range alerts {
		for _, cur := range s.alerts {
			if cur.ID == alerts[i].ID && cur.Time == alerts[i].Time && cur.LastFired > alerts[i].LastFired {
				alerts[i].LastFired = cur.LastFired
			}
		}
	}
	s.alerts = alerts
	if changed {
		if err := kv.SaveJSON(s.db, kv.KeySleepAlerts, alerts); err != nil {
			s.log.Error("saving repaired sleep alerts", zap.Error(err))
		}
	}
}

// List returns bedtime then wakeup.
func (s *Scheduler) List() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Alert(nil), s.alerts...)
}

// Get returns the alert with id.
func (s *Scheduler) Get(id string) (Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ID == id {
			return a, true
		}
	}
	return Alert{}, false
}

// Toggle flips one boolean field of the alert with id.
func (s *Scheduler) Toggle(id string, f Field) (Alert, error) {
	return s.update(id, func(a *Alert) error { return a.toggle(f) })
}

// SetTime sets the "HH:MM" time of the alert with id. The time is stored
// zero-padded.
func (s *Scheduler) SetTime(id, clock string) (Alert, error) {
	t, err := quiethours.NormalizeClock(clock)
	if err != nil {
		return Alert{}, err
	}
	return s.update(id, func(a *Alert) error {
		a.Time = t
		a.LastFired = ""
		return nil
	})
}

// SetSound changes the profile of the alert with id and plays it once at
// volume so the user hears the choice.
func (s *Scheduler) SetSound(id, profile string, volume float64) (Alert, error) {
	if !sound.Valid(profile) {
		return Alert{}, fmt.Errorf("%w: %q", sound.ErrUnknownProfile, profile)
	}
	a, err := s.update(id, func(a *Alert) error {
		a.SoundType = profile
		return nil
	})
	if err != nil {
		return Alert{}, err
	}
	if s.dispatch != nil {
		if err := s.dispatch.Preview(profile, volume); err != nil {
			s.log.Warn("sound preview failed", zap.String("profile", profile), zap.Error(err))
		}
	}
	return a, nil
}

func (s *Scheduler) update(id string, fn func(a *Alert) error) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]Alert(nil), s.alerts...)
	for i := range next {
		if next[i].ID != id {
			continue
		}
		if err := fn(&next[i]); err != nil {
			return Alert{}, err
		}
		if err := kv.SaveJSON(s.db, kv.KeySleepAlerts, next); err != nil {
			return Alert{}, fmt.Errorf("save sleep alerts: %w", err)
		}
		s.alerts = next
		s.gen++
		return next[i], nil
	}
	return Alert{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Tick delivers each enabled alert whose time matches the wall-clock minute
// of now, at most once per minute, and returns those delivered. Nothing
// happens while sleep alerts are disabled in settings.
func (s *Scheduler) Tick(now time.Time, snap settings.NotificationSettings) []Alert {
	if !snap.SleepAlertsEnabled {
		return nil
	}
	clock := now.Format("15:04")
	stamp := now.Format(stampLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Alert
	for i := range s.alerts {
		a := &s.alerts[i]
		if !a.Enabled || a.Time != clock || a.LastFired == stamp {
			continue
		}
		a.LastFired = stamp
		due = append(due, *a)
	}
	if len(due) == 0 {
		return nil
	}
	s.gen++
	if err := kv.SaveJSON(s.db, kv.KeySleepAlerts, s.alerts); err != nil {
		s.log.Error("saving sleep alerts", zap.Error(err))
	}

	for _, a := range due {
		s.log.Info("sleep alert due", zap.String("id", a.ID), zap.String("time", a.Time))
		if s.dispatch != nil {
			s.dispatch.Deliver(alert.Alert{
				ID:      a.ID,
				Title:   a.Title(),
				Body:    a.Body(),
				Sound:   a.Sound,
				Profile: a.SoundType,
				Vibrate: a.Vibration,
				Notify:  true,
			}, snap, now)
		}
	}
	return due
}

// Run ticks every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, src SettingsSource, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick(s.Now(), src.Snapshot())
		}
	}
}
