// Package ui provides the luna terminal dashboard.
// This file contains tea.Cmd factories that wrap engine operations. These
// commands run store and audio I/O asynchronously to keep the Bubble Tea
// event loop responsive. Each command returns a corresponding message type
// defined in messages.go.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"luna/internal/engine"
	"luna/internal/reminder"
	"luna/internal/settings"
	"luna/internal/sleep"
)

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// ensureAudioCmd starts or resumes the audio device.
func ensureAudioCmd(e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		_, err := e.Audio().EnsureReady()
		return audioReadyMsg{err: err}
	}
}

// addReminderCmd schedules a reminder titled title, due per the free-form
// when input.
func addReminderCmd(e *engine.Engine, title, when string) tea.Cmd {
	return func() tea.Msg {
		due, err := reminder.ParseDue(when, e.Now())
		if err != nil {
			return reminderAddedMsg{err: err}
		}
		r, err := e.AddReminder(reminder.New(title, due))
		return reminderAddedMsg{reminder: r, err: err}
	}
}

// removeReminderCmd deletes a reminder.
func removeReminderCmd(e *engine.Engine, r reminder.Reminder) tea.Cmd {
	return func() tea.Msg {
		err := e.Reminders().Remove(r.ID)
		return reminderRemovedMsg{title: r.Title, err: err}
	}
}

// toggleSleepCmd flips whether the sleep alert id is enabled.
func toggleSleepCmd(e *engine.Engine, id string) tea.Cmd {
	return func() tea.Msg {
		a, err := e.Sleep().Toggle(id, sleep.FieldEnabled)
		return sleepToggledMsg{alert: a, err: err}
	}
}

// toggleSoundCmd flips the global sound setting.
func toggleSoundCmd(e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		enabled := !e.Settings().Snapshot().SoundEnabled
		s, err := e.Settings().Update(settings.Patch{SoundEnabled: settings.Bool(enabled)})
		return settingsUpdatedMsg{settings: s, err: err}
	}
}

// previewCmd plays the default sound profile.
func previewCmd(e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		profile := e.Settings().Snapshot().DefaultSoundType
		return previewMsg{profile: profile, err: e.Preview(profile)}
	}
}
