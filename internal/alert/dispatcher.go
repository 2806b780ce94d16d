// Package alert turns a due reminder or sleep alert into its side effects:
// a tone, a vibration cue and a desktop notification, each gated by the
// notification settings in force at the moment of delivery.
package alert

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"luna/internal/notify"
	"luna/internal/settings"
	"luna/internal/sound"
)

// maxInFlight bounds concurrent side effects. Deliveries beyond it are
// dropped and logged rather than queued behind a stuck audio device.
const maxInFlight = 16

// Player plays a named sound profile.
type Player interface {
	Play(ctx context.Context, profile string, volume float64) error
}

// Alert describes one delivery. Sound, Vibrate and Notify are what the
// alert itself asks for; settings may still suppress each of them.
type Alert struct {
	ID      string
	Title   string
	Body    string
	Sound   bool
	Profile string
	Vibrate bool
	Notify  bool
}

// Outcome records which side effects Deliver started.
type Outcome struct {
	Sound   bool
	Vibrate bool
	Notify  bool
}

// Dispatcher runs side effects in the background so scheduler ticks never
// wait on audio or the notification daemon.
type Dispatcher struct {
	player   Player
	notifier notify.Notifier
	vibrator notify.Vibrator
	pattern  notify.Pattern
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	g      errgroup.Group
}

// NewDispatcher wires the three output channels. Nil notifier or vibrator
// fall back to no-ops; an empty pattern uses notify.DefaultPattern.
func NewDispatcher(player Player, notifier notify.Notifier, vibrator notify.Vibrator, pattern notify.Pattern, log *zap.Logger) *Dispatcher {
	if notifier == nil {
		notifier = notify.Noop()
	}
	if vibrator == nil {
		vibrator = notify.NoopVibrator()
	}
	if len(pattern) == 0 {
		pattern = notify.DefaultPattern
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		player:   player,
		notifier: notifier,
		vibrator: vibrator,
		pattern:  pattern,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	d.g.SetLimit(maxInFlight)
	return d
}

// Deliver starts every side effect a permits under snap at now and returns
// without waiting for them.
func (d *Dispatcher) Deliver(a Alert, snap settings.NotificationSettings, now time.Time) Outcome {
	var out Outcome
	log := d.log.With(zap.String("alert", a.ID))

	if a.Sound && snap.ShouldPlaySound(now) {
		profile := a.Profile
		if profile == "" {
			profile = snap.DefaultSoundType
		}
		volume := snap.NotificationVolume
		out.Sound = d.spawn(log, "sound", func(ctx context.Context) error {
			return d.player.Play(ctx, profile, volume)
		})
	}

	if a.Vibrate && snap.ShouldVibrate(now) && d.vibrator.IsSupported() {
		out.Vibrate = d.spawn(log, "vibration", func(ctx context.Context) error {
			return d.vibrator.Vibrate(ctx, d.pattern)
		})
	}

	if a.Notify && snap.NotificationsEnabled && d.notifier.IsSupported() {
		n := notify.Notification{Title: a.Title, Body: a.Body, Tag: a.ID}
		out.Notify = d.spawn(log, "notification", func(context.Context) error {
			return d.notifier.Send(n)
		})
	}

	log.Debug("alert delivered",
		zap.Bool("sound", out.Sound),
		zap.Bool("vibrate", out.Vibrate),
		zap.Bool("notify", out.Notify),
	)
	return out
}

// Preview plays profile at volume regardless of settings. The profile is
// checked synchronously so callers can report a bad name.
func (d *Dispatcher) Preview(profile string, volume float64) error {
	if _, err := sound.Lookup(profile); err != nil {
		return err
	}
	d.spawn(d.log.With(zap.String("preview", profile)), "sound", func(ctx context.Context) error {
		return d.player.Play(ctx, profile, volume)
	})
	return nil
}

func (d *Dispatcher) spawn(log *zap.Logger, channel string, fn func(ctx context.Context) error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	ok := d.g.TryGo(func() error {
		if err := fn(d.ctx); err != nil && d.ctx.Err() == nil {
			log.Warn("alert side effect failed", zap.String("channel", channel), zap.Error(err))
		}
		return nil
	})
	if !ok {
		log.Warn("too many alerts in flight, dropping", zap.String("channel", channel))
	}
	return ok
}

// Wait blocks until every started side effect has finished.
func (d *Dispatcher) Wait() {
	_ = d.g.Wait()
}

// Close cancels running side effects and waits for them to return. Later
// deliveries are ignored.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	return d.g.Wait()
}
