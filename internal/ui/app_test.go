package ui

import (
	"testing"
	"time"

	"luna/internal/config"
	"luna/internal/reminder"
	"luna/internal/sound"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestApp_LayoutModeTransitions(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{79, LayoutNarrow},
		{80, LayoutWide},
		{200, LayoutWide},
	}
	for _, tc := range tests {
		app.Update(tea.WindowSizeMsg{Width: tc.width, Height: 30})
		assert.Equal(t, tc.want, app.layoutMode, "width %d", tc.width)
	}
}

func TestApp_FirstKeyStartsAudio(t *testing.T) {
	app, e := newTestApp(t)
	require.NotEqual(t, sound.StateRunning, e.Audio().State())

	press(app, "j")
	assert.Equal(t, sound.StateRunning, e.Audio().State())
	assert.True(t, app.audioPrimed)
}

func TestApp_AddReminder(t *testing.T) {
	app, e := newTestApp(t)

	press(app, "a")
	require.True(t, app.reminderPane.IsAdding())
	typeText(app, "Drink water")
	press(app, "enter")
	require.True(t, app.reminderPane.IsAdding(), "should ask for the time next")
	typeText(app, "15:30")
	press(app, "enter")

	assert.False(t, app.reminderPane.IsAdding())
	list := e.Reminders().List()
	require.Len(t, list, 1)
	assert.Equal(t, "Drink water", list[0].Title)
	assert.Equal(t, 15, list[0].Time.Hour())
	assert.Equal(t, 30, list[0].Time.Minute())
	assert.Equal(t, reminder.DefaultIcon, list[0].Icon)
	assert.Contains(t, app.status, "Reminder set at 3:30 PM")
	assert.Contains(t, app.View(), "Drink water")
}

func TestApp_AddReminderDefaultTime(t *testing.T) {
	app, e := newTestApp(t)

	press(app, "a")
	typeText(app, "Stretch")
	press(app, "enter", "enter")

	list := e.Reminders().List()
	require.Len(t, list, 1)
	assert.Equal(t, testNow.Add(reminder.DefaultLead), list[0].Time)
	assert.Contains(t, app.View(), "in 30 minutes")
}

func TestApp_AddReminderBadTime(t *testing.T) {
	app, e := newTestApp(t)

	press(app, "a")
	typeText(app, "Walk")
	press(app, "enter")
	typeText(app, "soonish")
	press(app, "enter")

	assert.Empty(t, e.Reminders().List())
	assert.True(t, app.statusErr)
	assert.Contains(t, app.status, "Add reminder")
}

func TestApp_CancelAdding(t *testing.T) {
	app, e := newTestApp(t)

	press(app, "a")
	typeText(app, "Never mind")
	press(app, "esc")

	assert.False(t, app.reminderPane.IsAdding())
	assert.Empty(t, e.Reminders().List())

	// Keys typed in input mode must not trigger actions.
	press(app, "a")
	typeText(app, "qbx")
	assert.False(t, app.quitting)
	assert.True(t, e.Sleep().List()[0].Enabled)
}

func TestApp_DeleteReminderConfirm(t *testing.T) {
	app, e := newTestApp(t)
	_, err := e.AddReminder(reminder.New("Take a break", testNow.Add(time.Hour)))
	require.NoError(t, err)
	app.refresh()

	press(app, "x")
	require.NotNil(t, app.confirmDel)
	assert.Contains(t, app.View(), "Delete reminder?")

	press(app, "n")
	assert.Len(t, e.Reminders().List(), 1)

	press(app, "x", "y")
	assert.Empty(t, e.Reminders().List())
	assert.Contains(t, app.status, "Deleted Take a break")
}

func TestApp_DeleteWithoutConfirmation(t *testing.T) {
	setupTest(t)
	e := createTestEngine(t)
	_, err := e.AddReminder(reminder.New("Meditate", testNow.Add(time.Hour)))
	require.NoError(t, err)

	app := NewApp(e, createTestStyles(), &AppConfig{NarrowLayoutThreshold: 80})
	press(app, "x")
	assert.Nil(t, app.confirmDel)
	assert.Empty(t, e.Reminders().List())
}

func TestApp_DeleteNothingSelected(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, "x")
	assert.Nil(t, app.confirmDel)
	assert.True(t, app.statusErr)
}

func TestApp_ToggleSleepAlerts(t *testing.T) {
	app, e := newTestApp(t)

	press(app, "b")
	bed, ok := e.Sleep().Get("bedtime")
	require.True(t, ok)
	assert.False(t, bed.Enabled)
	assert.Equal(t, "Bedtime alert off", app.status)

	press(app, "w", "w")
	wake, _ := e.Sleep().Get("wakeup")
	assert.True(t, wake.Enabled)
	assert.Equal(t, "Wake up alert on at 07:00", app.status)
}

func TestApp_ToggleSound(t *testing.T) {
	app, e := newTestApp(t)

	press(app, "s")
	assert.False(t, e.Settings().Snapshot().SoundEnabled)
	assert.Equal(t, "Sound off", app.status)

	press(app, "s")
	assert.True(t, e.Settings().Snapshot().SoundEnabled)
}

func TestApp_Preview(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, "p")
	assert.False(t, app.statusErr)
	assert.Equal(t, "Playing "+sound.Gentle, app.status)
}

func TestApp_HelpOverlay(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, "?")
	require.True(t, app.showHelp)
	assert.Contains(t, app.View(), "Keyboard Shortcuts")

	// Dashboard keys are inert while help is shown.
	press(app, "s")
	assert.True(t, app.showHelp)

	press(app, "esc")
	assert.False(t, app.showHelp)
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, app.quitting)
	assert.Contains(t, app.View(), "Good night")
}

func TestApp_CustomKeys(t *testing.T) {
	setupTest(t)
	e := createTestEngine(t)
	app := NewApp(e, createTestStyles(), &AppConfig{
		Keys:             &config.KeysConfig{ToggleSound: "m"},
		ConfirmDeletions: true,
	})

	press(app, "s")
	assert.True(t, e.Settings().Snapshot().SoundEnabled)

	press(app, "m")
	assert.False(t, e.Settings().Snapshot().SoundEnabled)
}

func TestApp_ViewShowsDashboard(t *testing.T) {
	app, e := newTestApp(t)
	_, err := e.AddReminder(reminder.New("Drink water", testNow.Add(5*time.Minute)))
	require.NoError(t, err)
	app.refresh()

	view := app.View()
	for _, want := range []string{"luna", "REMINDERS", "SLEEP", "Bedtime", "22:00", "Wake up", "07:00", "in 5 minutes", "Next: Drink water"} {
		assert.Contains(t, view, want)
	}
}

func TestApp_TickExpiresStatus(t *testing.T) {
	app, _ := newTestApp(t)

	app.SetStatus("hello", false)
	app.statusUntil = time.Now().Add(-time.Second)
	_, cmd := app.Update(tickMsg{})
	assert.NotNil(t, cmd)
	assert.Empty(t, app.status)
}
