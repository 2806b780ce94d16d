// Package engine assembles luna's components from configuration and runs the
// schedulers. The CLI and the dashboard drive everything through an Engine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"luna/internal/alert"
	"luna/internal/config"
	"luna/internal/kv"
	"luna/internal/notify"
	"luna/internal/reminder"
	"luna/internal/settings"
	"luna/internal/sleep"
	"luna/internal/sound"
)

// confirmID tags the cue played when a reminder is added.
const confirmID = "reminder-added"

// Deps replaces platform surfaces, mostly for tests. Zero fields get the
// platform defaults.
type Deps struct {
	Opener   sound.Opener
	Notifier notify.Notifier
	Vibrator notify.Vibrator
	Now      func() time.Time
}

// Engine owns one instance of every component.
type Engine struct {
	cfg      *config.Config
	log      *zap.Logger
	dataDir  string
	interval time.Duration
	now      func() time.Time

	db         kv.Store
	audio      *sound.AudioContext
	synth      *sound.Synthesizer
	dispatcher *alert.Dispatcher
	settings   *settings.Store
	reminders  *reminder.Scheduler
	sleep      *sleep.Scheduler
}

// New opens the store in cfg's data directory and wires the components.
func New(cfg *config.Config, log *zap.Logger, deps Deps) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	interval, err := cfg.TickInterval()
	if err != nil {
		return nil, err
	}

	dataDir := cfg.GetDataDir()
	db, err := kv.Open(cfg.Storage.Backend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	opener := deps.Opener
	if opener == nil {
		opener = sound.PlatformOpener
		if !cfg.Audio.Enabled {
			opener = sound.NullOpener
		}
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Noop()
		if cfg.Notifications.Desktop {
			notifier = notify.New()
		}
	}
	vibrator := deps.Vibrator
	if vibrator == nil {
		vibrator = notify.NoopVibrator()
		if cfg.Notifications.Vibration {
			vibrator = notify.NewBellVibrator(os.Stdout)
		}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	audio := sound.NewAudioContext(cfg.Audio.SampleRate, opener, log.Named("audio"))
	synth := sound.NewSynthesizer(audio, log.Named("sound"))
	dispatcher := alert.NewDispatcher(synth, notifier, vibrator,
		notify.PatternFromMillis(cfg.Notifications.VibrationPattern), log.Named("alert"))

	e := &Engine{
		cfg:        cfg,
		log:        log,
		dataDir:    dataDir,
		interval:   interval,
		now:        now,
		db:         db,
		audio:      audio,
		synth:      synth,
		dispatcher: dispatcher,
		settings:   settings.NewStore(db, log.Named("settings")),
		reminders:  reminder.NewScheduler(db, dispatcher, log.Named("reminder")),
		sleep:      sleep.NewScheduler(db, dispatcher, log.Named("sleep")),
	}
	e.reminders.SetNowFunc(now)
	e.sleep.SetNowFunc(now)

	log.Debug("engine ready",
		zap.String("data_dir", dataDir),
		zap.String("backend", cfg.Storage.Backend),
		zap.Duration("tick", interval),
	)
	return e, nil
}

func (e *Engine) Config() *config.Config         { return e.cfg }
func (e *Engine) Settings() *settings.Store      { return e.settings }
func (e *Engine) Reminders() *reminder.Scheduler { return e.reminders }
func (e *Engine) Sleep() *sleep.Scheduler        { return e.sleep }
func (e *Engine) Audio() *sound.AudioContext     { return e.audio }
func (e *Engine) Store() kv.Store                { return e.db }
func (e *Engine) DataDir() string                { return e.dataDir }

// Now returns the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// AddReminder schedules r and plays the bell cue if settings allow sound.
// An empty sound type takes the default sound setting.
func (e *Engine) AddReminder(r reminder.Reminder) (reminder.Reminder, error) {
	if r.SoundType == "" {
		r.SoundType = e.settings.Snapshot().DefaultSoundType
	}
	added, err := e.reminders.Add(r)
	if err != nil {
		return reminder.Reminder{}, err
	}
	e.dispatcher.Deliver(alert.Alert{ID: confirmID, Sound: true, Profile: sound.Bell},
		e.settings.Snapshot(), e.now())
	return added, nil
}

// SetSleepSound changes an alert's profile and previews it at the
// configured volume.
func (e *Engine) SetSleepSound(id, profile string) (sleep.Alert, error) {
	return e.sleep.SetSound(id, profile, e.settings.Snapshot().NotificationVolume)
}

// Preview plays profile at the configured volume, ignoring quiet hours.
func (e *Engine) Preview(profile string) error {
	return e.dispatcher.Preview(profile, e.settings.Snapshot().NotificationVolume)
}

// PlayNow plays profile and waits for it to finish. The CLI uses it so the
// process does not exit mid-tone.
func (e *Engine) PlayNow(ctx context.Context, profile string, volume float64) error {
	return e.synth.Play(ctx, profile, volume)
}

// Wait blocks until queued sounds, vibrations and notifications finish.
// Short-lived commands call it before Close so a cue is not cut off.
func (e *Engine) Wait() {
	e.dispatcher.Wait()
}

// Tick runs both schedulers once at now.
func (e *Engine) Tick(now time.Time) {
	snap := e.settings.Snapshot()
	e.reminders.Tick(now, snap)
	e.sleep.Tick(now, snap)
}

// Reload re-reads the state behind key, or everything for kv.AllKeys.
func (e *Engine) Reload(key string) {
	switch key {
	case kv.KeySettings:
		e.settings.Reload()
	case kv.KeyReminders, kv.KeyRemindersSeen:
		e.reminders.Reload()
	case kv.KeySleepAlerts:
		e.sleep.Reload()
	case kv.AllKeys:
		e.settings.Reload()
		e.reminders.Reload()
		e.sleep.Reload()
	}
}

// Run starts the audio device and runs both schedulers plus the store
// watcher until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if _, err := e.audio.EnsureReady(); err != nil {
		e.log.Warn("audio not ready, will retry on first alert", zap.Error(err))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.reminders.Run(ctx, e.settings, e.interval)
	})
	g.Go(func() error {
		return e.sleep.Run(ctx, e.settings, e.interval)
	})
	g.Go(func() error {
		err := kv.Watch(ctx, e.dataDir, e.log.Named("watch"), e.Reload)
		if err != nil {
			e.log.Warn("external changes will not be picked up", zap.Error(err))
		}
		return nil
	})

	e.log.Info("luna running", zap.Duration("tick", e.interval))
	return g.Wait()
}

// Close stops in-flight alerts, releases the audio device and closes the
// store.
func (e *Engine) Close() error {
	var errs []error
	if err := e.dispatcher.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.audio.Teardown(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if err := e.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	return errors.Join(errs...)
}
