// Package ui provides the luna terminal dashboard.
// This file defines message types for engine operations using the Bubble Tea
// command pattern. Every operation that touches the store or the audio device
// returns one of these messages to keep the event loop non-blocking.
package ui

import (
	"luna/internal/reminder"
	"luna/internal/settings"
	"luna/internal/sleep"
)

// tickMsg is sent once a second to refresh countdowns and expire the status.
type tickMsg struct{}

// audioReadyMsg is sent after the first key press tried to start audio.
type audioReadyMsg struct {
	err error
}

// reminderAddedMsg is sent when a new reminder is scheduled.
type reminderAddedMsg struct {
	reminder reminder.Reminder
	err      error
}

// reminderRemovedMsg is sent when a reminder is deleted.
type reminderRemovedMsg struct {
	title string
	err   error
}

// sleepToggledMsg is sent when a sleep alert is switched on or off.
type sleepToggledMsg struct {
	alert sleep.Alert
	err   error
}

// settingsUpdatedMsg is sent when notification settings are changed.
type settingsUpdatedMsg struct {
	settings settings.NotificationSettings
	err      error
}

// previewMsg is sent once a preview has been queued.
type previewMsg struct {
	profile string
	err     error
}
