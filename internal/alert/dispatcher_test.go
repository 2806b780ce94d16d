package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"luna/internal/notify"
	"luna/internal/settings"
	"luna/internal/sound"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type played struct {
	profile string
	volume  float64
}

type fakePlayer struct {
	mu    sync.Mutex
	calls []played
	block bool
	err   error
}

func (p *fakePlayer) Play(ctx context.Context, profile string, volume float64) error {
	p.mu.Lock()
	p.calls = append(p.calls, played{profile, volume})
	block, err := p.block, p.err
	p.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (p *fakePlayer) played() []played {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]played(nil), p.calls...)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *fakeNotifier) Send(msg notify.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) IsSupported() bool { return true }

type fakeVibrator struct {
	mu    sync.Mutex
	count int
	last  notify.Pattern
}

func (v *fakeVibrator) Vibrate(_ context.Context, p notify.Pattern) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.count++
	v.last = p
	return nil
}

func (v *fakeVibrator) IsSupported() bool { return true }

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakePlayer, *fakeNotifier, *fakeVibrator) {
	t.Helper()
	p, n, v := &fakePlayer{}, &fakeNotifier{}, &fakeVibrator{}
	d := NewDispatcher(p, n, v, nil, nil)
	t.Cleanup(func() { _ = d.Close() })
	return d, p, n, v
}

var noon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

func reminderAlert() Alert {
	return Alert{
		ID:      "r-1",
		Title:   "Drink water",
		Body:    "Time for: Drink water",
		Sound:   true,
		Profile: sound.Chime,
		Vibrate: true,
		Notify:  true,
	}
}

func TestDeliver_AllChannels(t *testing.T) {
	d, p, n, v := newTestDispatcher(t)

	out := d.Deliver(reminderAlert(), settings.Defaults(), noon)
	d.Wait()

	assert.Equal(t, Outcome{Sound: true, Vibrate: true, Notify: true}, out)
	assert.Equal(t, []played{{sound.Chime, 0.5}}, p.played())
	assert.Equal(t, 1, v.count)
	assert.Equal(t, notify.DefaultPattern, v.last)
	require.Len(t, n.sent, 1)
	assert.Equal(t, "r-1", n.sent[0].Tag)
	assert.Equal(t, "Drink water", n.sent[0].Title)
}

func TestDeliver_QuietHoursSuppressSoundAndVibration(t *testing.T) {
	d, p, n, v := newTestDispatcher(t)

	snap := settings.Defaults()
	snap.QuietHoursEnabled = true
	snap.QuietHoursStart = "11:00"
	snap.QuietHoursEnd = "13:00"

	out := d.Deliver(reminderAlert(), snap, noon)
	d.Wait()

	assert.False(t, out.Sound)
	assert.False(t, out.Vibrate)
	assert.True(t, out.Notify)
	assert.Empty(t, p.played())
	assert.Zero(t, v.count)
	assert.Len(t, n.sent, 1)
}

func TestDeliver_SettingsGates(t *testing.T) {
	d, p, n, v := newTestDispatcher(t)

	snap := settings.Defaults()
	snap.SoundEnabled = false
	snap.VibrationEnabled = false
	snap.NotificationsEnabled = false

	out := d.Deliver(reminderAlert(), snap, noon)
	d.Wait()

	assert.Equal(t, Outcome{}, out)
	assert.Empty(t, p.played())
	assert.Zero(t, v.count)
	assert.Empty(t, n.sent)
}

func TestDeliver_AlertFlags(t *testing.T) {
	d, p, _, v := newTestDispatcher(t)

	a := reminderAlert()
	a.Sound = false
	a.Vibrate = false

	out := d.Deliver(a, settings.Defaults(), noon)
	d.Wait()

	assert.Equal(t, Outcome{Notify: true}, out)
	assert.Empty(t, p.played())
	assert.Zero(t, v.count)
}

func TestDeliver_EmptyProfileUsesDefault(t *testing.T) {
	d, p, _, _ := newTestDispatcher(t)

	a := reminderAlert()
	a.Profile = ""
	snap := settings.Defaults()
	snap.DefaultSoundType = sound.Soft
	snap.NotificationVolume = 0.8

	d.Deliver(a, snap, noon)
	d.Wait()

	assert.Equal(t, []played{{sound.Soft, 0.8}}, p.played())
}

func TestDeliver_UnsupportedVibrator(t *testing.T) {
	p := &fakePlayer{}
	d := NewDispatcher(p, notify.Noop(), notify.NoopVibrator(), nil, nil)
	defer d.Close()

	out := d.Deliver(reminderAlert(), settings.Defaults(), noon)
	d.Wait()

	assert.Equal(t, Outcome{Sound: true}, out)
}

func TestDeliver_FailureIsLogged(t *testing.T) {
	p := &fakePlayer{err: errors.New("device busy")}
	d := NewDispatcher(p, nil, nil, nil, nil)
	defer d.Close()

	out := d.Deliver(reminderAlert(), settings.Defaults(), noon)
	d.Wait()
	assert.True(t, out.Sound)
}

func TestPreview(t *testing.T) {
	d, p, _, _ := newTestDispatcher(t)

	require.NoError(t, d.Preview(sound.Bell, 0.3))
	d.Wait()
	assert.Equal(t, []played{{sound.Bell, 0.3}}, p.played())

	err := d.Preview("kazoo", 0.3)
	assert.ErrorIs(t, err, sound.ErrUnknownProfile)
}

func TestClose_CancelsInFlight(t *testing.T) {
	p := &fakePlayer{block: true}
	d := NewDispatcher(p, nil, nil, nil, nil)

	out := d.Deliver(reminderAlert(), settings.Defaults(), noon)
	require.True(t, out.Sound)

	done := make(chan struct{})
	go func() {
		_ = d.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the blocked player")
	}

	out = d.Deliver(reminderAlert(), settings.Defaults(), noon)
	assert.Equal(t, Outcome{}, out)
	assert.NoError(t, d.Close())
}

func TestDeliver_DropsWhenSaturated(t *testing.T) {
	p := &fakePlayer{block: true}
	d := NewDispatcher(p, nil, nil, nil, nil)
	defer d.Close()

	a := reminderAlert()
	a.Vibrate, a.Notify = false, false
	for i := 0; i < maxInFlight; i++ {
		require.True(t, d.Deliver(a, settings.Defaults(), noon).Sound)
	}
	assert.False(t, d.Deliver(a, settings.Defaults(), noon).Sound)
}
