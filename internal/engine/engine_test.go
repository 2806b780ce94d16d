package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"luna/internal/config"
	"luna/internal/kv"
	"luna/internal/notify"
	"luna/internal/reminder"
	"luna/internal/settings"
	"luna/internal/sound"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeOutput struct {
	mu    sync.Mutex
	plays int
}

func (o *fakeOutput) Play(context.Context, []int16) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.plays++
	return nil
}

func (o *fakeOutput) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.plays
}

func (o *fakeOutput) Suspended() bool { return false }
func (o *fakeOutput) Resume() error   { return nil }
func (o *fakeOutput) Close() error    { return nil }

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

func (n *fakeNotifier) tags() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var tags []string
	for _, s := range n.sent {
		tags = append(tags, s.Tag)
	}
	return tags
}

type harness struct {
	engine   *Engine
	out      *fakeOutput
	notifier *fakeNotifier
	dir      string
}

var noon = time.Date(2026, 8, 20, 12, 0, 0, 0, time.Local)

func newHarness(t *testing.T, backend string) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Storage.Backend = backend
	cfg.Scheduler.TickInterval = "10ms"

	h := &harness{out: &fakeOutput{}, notifier: &fakeNotifier{}, dir: cfg.DataDir}
	e, err := New(cfg, nil, Deps{
		Opener:   func(int) (sound.Output, error) { return h.out, nil },
		Notifier: h.notifier,
		Vibrator: notify.NoopVibrator(),
		Now:      func() time.Time { return noon },
	})
	require.NoError(t, err)
	h.engine = e
	t.Cleanup(func() { assert.NoError(t, e.Close()) })
	return h
}

func TestAddReminder_PlaysCueAndFires(t *testing.T) {
	for _, backend := range []string{kv.BackendJSON, kv.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t, backend)
			e := h.engine

			r, err := e.AddReminder(reminder.New("Drink water", noon.Add(30*time.Second)))
			require.NoError(t, err)
			require.Eventually(t, func() bool { return h.out.count() == 1 }, time.Second, 5*time.Millisecond)

			e.Tick(noon)
			assert.Empty(t, h.notifier.tags())

			e.Tick(noon.Add(30 * time.Second))
			e.Tick(noon.Add(31 * time.Second))
			require.Eventually(t, func() bool { return len(h.notifier.tags()) == 1 }, time.Second, 5*time.Millisecond)
			assert.Equal(t, []string{r.ID}, h.notifier.tags())
			require.Eventually(t, func() bool { return h.out.count() == 2 }, time.Second, 5*time.Millisecond)
		})
	}
}

func TestAddReminder_EmptySoundUsesDefaultSetting(t *testing.T) {
	h := newHarness(t, kv.BackendJSON)
	_, err := h.engine.Settings().Update(settings.Patch{DefaultSoundType: settings.String(sound.Chime)})
	require.NoError(t, err)

	r := reminder.New("Call mom", noon.Add(time.Hour))
	r.SoundType = ""
	added, err := h.engine.AddReminder(r)
	require.NoError(t, err)
	assert.Equal(t, sound.Chime, added.SoundType)

	explicit, err := h.engine.AddReminder(reminder.New("Walk", noon.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, sound.Gentle, explicit.SoundType)
}

func TestAddReminder_InvalidLeavesListUnchanged(t *testing.T) {
	h := newHarness(t, kv.BackendJSON)

	_, err := h.engine.AddReminder(reminder.New("No time", time.Time{}))
	assert.ErrorIs(t, err, reminder.ErrInvalidReminder)
	assert.Empty(t, h.engine.Reminders().List())
	assert.Zero(t, h.out.count())
}

func TestTick_QuietHoursMuteSound(t *testing.T) {
	h := newHarness(t, kv.BackendJSON)
	e := h.engine

	_, err := e.Settings().Update(settings.Patch{
		QuietHoursEnabled: settings.Bool(true),
		QuietHoursStart:   settings.String("11:00"),
		QuietHoursEnd:     settings.String("13:00"),
	})
	require.NoError(t, err)

	_, err = e.AddReminder(reminder.New("Stretch", noon))
	require.NoError(t, err)
	e.Tick(noon)

	require.Eventually(t, func() bool { return len(h.notifier.tags()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, h.out.count())
}

func TestTick_SleepAlert(t *testing.T) {
	h := newHarness(t, kv.BackendJSON)
	e := h.engine

	_, err := e.Sleep().SetTime("bedtime", "12:00")
	require.NoError(t, err)

	e.Tick(noon)
	e.Tick(noon.Add(10 * time.Second))
	require.Eventually(t, func() bool { return len(h.notifier.tags()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"bedtime"}, h.notifier.tags())
}

func TestSetSleepSound_Previews(t *testing.T) {
	h := newHarness(t, kv.BackendJSON)

	_, err := h.engine.SetSleepSound("wakeup", sound.Chime)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.out.count() == 1 }, time.Second, 5*time.Millisecond)

	_, err = h.engine.SetSleepSound("wakeup", "kazoo")
	assert.ErrorIs(t, err, sound.ErrUnknownProfile)
}

func TestRun_PicksUpExternalChanges(t *testing.T) {
	h := newHarness(t, kv.BackendJSON)
	e := h.engine

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	assert.Eventually(t, func() bool { return e.Audio().State() == sound.StateRunning }, time.Second, 5*time.Millisecond)

	// Give the watcher time to register before writing from "another process".
	time.Sleep(50 * time.Millisecond)
	other, err := kv.NewFileStore(h.dir)
	require.NoError(t, err)
	next := settings.Defaults()
	next.RemindersEnabled = false
	require.NoError(t, kv.SaveJSON(other, kv.KeySettings, next))

	assert.Eventually(t, func() bool { return !e.Settings().Snapshot().RemindersEnabled }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestReload_AllKeys(t *testing.T) {
	h := newHarness(t, kv.BackendJSON)
	e := h.engine

	other, err := kv.NewFileStore(h.dir)
	require.NoError(t, err)
	next := settings.Defaults()
	next.NotificationVolume = 0.9
	require.NoError(t, kv.SaveJSON(other, kv.KeySettings, next))

	e.Reload(kv.AllKeys)
	assert.InDelta(t, 0.9, e.Settings().Snapshot().NotificationVolume, 1e-9)
}

func TestWait_BlocksUntilCueDone(t *testing.T) {
	h := newHarness(t, kv.BackendJSON)

	require.NoError(t, h.engine.Preview(sound.Soft))
	h.engine.Wait()
	assert.Equal(t, 1, h.out.count())
}
