package ui

import (
	"context"
	"testing"
	"time"

	"luna/internal/config"
	"luna/internal/engine"
	"luna/internal/notify"
	"luna/internal/sound"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

// testNow is the fixed engine clock: a Thursday at 14:00 local time.
var testNow = time.Date(2026, 8, 20, 14, 0, 0, 0, time.Local)

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

type silentOutput struct{}

func (silentOutput) Play(context.Context, []int16) error { return nil }
func (silentOutput) Suspended() bool                      { return false }
func (silentOutput) Resume() error                        { return nil }
func (silentOutput) Close() error                         { return nil }

// createTestEngine builds an engine over a temporary data dir with silent
// audio and no desktop side effects.
func createTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	e, err := engine.New(cfg, nil, engine.Deps{
		Opener:   func(int) (sound.Output, error) { return silentOutput{}, nil },
		Notifier: notify.Noop(),
		Vibrator: notify.NoopVibrator(),
		Now:      func() time.Time { return testNow },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// newTestApp returns a sized app with deletion confirmation on.
func newTestApp(t *testing.T) (*App, *engine.Engine) {
	t.Helper()
	setupTest(t)
	e := createTestEngine(t)
	app := NewApp(e, createTestStyles(), nil)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return app, e
}

// press feeds keys to the app and runs the resulting commands until no
// more messages are produced. Tick commands are not followed.
func press(app *App, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := app.Update(msg)
		drain(app, cmd)
	}
}

// typeText types s one rune at a time.
func typeText(app *App, s string) {
	for _, r := range s {
		_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		drain(app, cmd)
	}
}

func drain(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, c := range m {
			drain(app, c)
		}
	case audioReadyMsg, reminderAddedMsg, reminderRemovedMsg,
		sleepToggledMsg, settingsUpdatedMsg, previewMsg:
		_, next := app.Update(m)
		drain(app, next)
	}
	// Anything else (ticks, cursor blinks, quit) is dropped.
}
