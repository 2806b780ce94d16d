package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"luna/internal/alert"
	"luna/internal/kv"
	"luna/internal/settings"
)

// DefaultInterval is how often Run checks for due reminders.
const DefaultInterval = time.Second

// Deliverer performs the side effects of a due reminder.
type Deliverer interface {
	Deliver(a alert.Alert, snap settings.NotificationSettings, now time.Time) alert.Outcome
}

// SettingsSource supplies the settings in force for each tick.
type SettingsSource interface {
	Snapshot() settings.NotificationSettings
}

// Scheduler owns the reminder list and the set of reminders that have
// already fired. Both are persisted, so a restart does not fire a reminder
// twice.
type Scheduler struct {
	mu        sync.Mutex
	db        kv.Store
	deliverer Deliverer
	log       *zap.Logger
	now       func() time.Time

	reminders []Reminder
	fired     map[string]bool
	// gen counts local writes. Reload discards what it read when a write
	// landed while it was reading.
	gen uint64
}

// NewScheduler loads the persisted reminders from db.
func NewScheduler(db kv.Store, d Deliverer, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{db: db, deliverer: d, log: log, now: time.Now}
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

// Reload replaces the in-memory state with what is persisted. Unreadable
// data yields an empty list; entries without a due time are dropped. A
// reminder that already fired in this process stays fired.
func (s *Scheduler) Reload() {
	s.mu.Lock()
	start := s.gen
	s.mu.Unlock()

	var stored []Reminder
	if err := kv.LoadJSON(s.db, kv.KeyReminders, &stored); err != nil {
		switch {
		case errors.Is(err, kv.ErrNotFound):
		case errors.Is(err, kv.ErrRecovered):
			s.log.Warn("reminders recovered from previous value", zap.Error(err))
		default:
			s.log.Error("loading reminders", zap.Error(err))
			stored = nil
		}
	}

	valid := stored[:0]
	for _, r := range stored {
		if r.ID == "" || r.Time.IsZero() {
			s.log.Warn("dropping stored reminder without id or time", zap.String("title", r.Title))
			continue
		}
		valid = append(valid, r)
	}

	var seen []string
	if err := kv.LoadJSON(s.db, kv.KeyRemindersSeen, &seen); err != nil && !errors.Is(err, kv.ErrNotFound) {
		s.log.Warn("loading fired reminders", zap.Error(err))
	}
	fired := make(map[string]bool, len(seen))
	for _, id := range seen {
		fired[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != start {
		// Our own write is newer than what was read and triggers its own
		// reload.
		s.log.Debug("discarding stale reminder reload")
		return
	}
	for _, r := range valid {
		if s.fired[r.ID] {
			fired[r.ID] = true
		}
	}
	s.reminders = valid
	s.fired = fired
}

// Add validates r, gives it an id if it has none and persists it. An invalid
// reminder returns ErrInvalidReminder and leaves the list unchanged.
func (s *Scheduler) Add(r Reminder) (Reminder, error) {
	if err := r.normalize(); err != nil {
		return Reminder{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reminders {
		if existing.ID == r.ID {
			return Reminder{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidReminder, r.ID)
		}
	}

	next := append(append([]Reminder(nil), s.reminders...), r)
	if err := kv.SaveJSON(s.db, kv.KeyReminders, next); err != nil {
		return Reminder{}, fmt.Errorf("save reminders: %w", err)
	}
	s.reminders = next
	s.gen++
	s.log.Info("reminder added", zap.String("id", r.ID), zap.Time("due", r.Time))
	return r, nil
}

// Remove deletes the reminder with id and forgets that it fired.
func (s *Scheduler) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := make([]Reminder, 0, len(s.reminders)-1)
	next = append(next, s.reminders[:idx]...)
	next = append(next, s.reminders[idx+1:]...)
	if err := kv.SaveJSON(s.db, kv.KeyReminders, next); err != nil {
		return fmt.Errorf("save reminders: %w", err)
	}
	s.reminders = next
	s.gen++

	if s.fired[id] {
		delete(s.fired, id)
		s.saveFiredLocked()
	}
	s.log.Info("reminder removed", zap.String("id", id))
	return nil
}

// List returns the reminders in the order they were added.
func (s *Scheduler) List() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Reminder(nil), s.reminders...)
}

// Get returns the reminder with id.
func (s *Scheduler) Get(id string) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reminders {
		if r.ID == id {
			return r, true
		}
	}
	return Reminder{}, false
}

// Fired reports whether the reminder with id has already been delivered.
func (s *Scheduler) Fired(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired[id]
}

// Tick delivers every due reminder that has not fired yet and returns them.
// Nothing happens while reminders are disabled; pending reminders stay
// pending until they are enabled again.
func (s *Scheduler) Tick(now time.Time, snap settings.NotificationSettings) []Reminder {
	if !snap.RemindersEnabled {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Reminder
	for _, r := range s.reminders {
		if s.fired[r.ID] || !r.Due(now) {
			continue
		}
		s.fired[r.ID] = true
		due = append(due, r)
	}
	if len(due) == 0 {
		return nil
	}
	s.gen++
	s.saveFiredLocked()

	for _, r := range due {
		s.log.Info("reminder due", zap.String("id", r.ID), zap.String("title", r.Title))
		if s.deliverer != nil {
			s.deliverer.Deliver(alert.Alert{
				ID:      r.ID,
				Title:   r.Title,
				Body:    r.Body(),
				Sound:   r.Sound,
				Profile: r.SoundType,
				Vibrate: r.Vibration,
				Notify:  true,
			}, snap, now)
		}
	}
	return due
}

// saveFiredLocked persists the fired set. A failed write is logged; the
// in-memory set still prevents a repeat within this process.
func (s *Scheduler) saveFiredLocked() {
	ids := make([]string, 0, len(s.fired))
	for id := range s.fired {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if err := kv.SaveJSON(s.db, kv.KeyRemindersSeen, ids); err != nil {
		s.log.Error("saving fired reminders", zap.Error(err))
	}
}

// Run ticks every interval until ctx is cancelled, reading a fresh settings
// snapshot for each tick.
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
