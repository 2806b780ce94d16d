// Package ui provides the luna terminal dashboard.
// This file contains the main App model which coordinates the panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"luna/internal/config"
	"luna/internal/engine"
	"luna/internal/reminder"
	"luna/internal/sleep"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows reminders and sleep side by side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow stacks the panes.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	NarrowLayoutThreshold int
}

// App is the main application model.
type App struct {
	engine       *engine.Engine
	styles       *Styles
	config       *AppConfig
	reminderPane *ReminderPane
	sleepPane    *SleepPane
	helpOverlay  *HelpOverlay
	confirmDel   *confirmDeleteState
	layoutMode   LayoutMode
	showHelp     bool
	audioPrimed  bool
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	quitting     bool

	keys      GlobalKeyMap
	dashKeys  DashboardKeyMap
	inputKeys InputKeyMap
	helpKeys  HelpKeyMap
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates the dashboard over e.
func NewApp(e *engine.Engine, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	global := NewGlobalKeyMap(cfg.Keys)
	dash := NewDashboardKeyMap(cfg.Keys)
	input := NewInputKeyMap(cfg.Keys)

	return &App{
		engine:       e,
		styles:       styles,
		config:       cfg,
		reminderPane: NewReminderPane(e, styles, cfg.Keys),
		sleepPane:    NewSleepPane(e, styles),
		helpOverlay:  NewHelpOverlay(styles, global, dash, input),
		keys:         global,
		dashKeys:     dash,
		inputKeys:    input,
		helpKeys:     DefaultHelpKeyMap(),
	}
}

// Init starts the refresh tick.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		a.refresh()
		if a.status != "" && time.Now().After(a.statusUntil) {
			a.status = ""
		}
		return a, tickCmd()

	case audioReadyMsg:
		if msg.err != nil {
			a.SetStatus("Audio: "+msg.err.Error(), true)
		}
		return a, nil

	case reminderAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add reminder: "+msg.err.Error(), true)
		} else {
			a.SetStatus(fmt.Sprintf("Reminder set %s", reminder.RemainingTime(msg.reminder.Time, a.engine.Now())), false)
		}
		a.refresh()
		return a, nil

	case reminderRemovedMsg:
		if msg.err != nil {
			a.SetStatus("Delete reminder: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Deleted "+truncateText(msg.title, 40), false)
		}
		a.refresh()
		return a, nil

	case sleepToggledMsg:
		if msg.err != nil {
			a.SetStatus("Sleep alert: "+msg.err.Error(), true)
		} else {
			state := "off"
			if msg.alert.Enabled {
				state = "on at " + msg.alert.Time
			}
			a.SetStatus(fmt.Sprintf("%s alert %s", msg.alert.Title(), state), false)
		}
		a.refresh()
		return a, nil

	case settingsUpdatedMsg:
		if msg.err != nil {
			a.SetStatus("Settings: "+msg.err.Error(), true)
		} else if msg.settings.SoundEnabled {
			a.SetStatus("Sound on", false)
		} else {
			a.SetStatus("Sound off", false)
		}
		a.refresh()
		return a, nil

	case previewMsg:
		if msg.err != nil {
			a.SetStatus("Preview: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Playing "+msg.profile, false)
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		// Audio output may only start once the user has interacted.
		var prime tea.Cmd
		if !a.audioPrimed {
			a.audioPrimed = true
			prime = ensureAudioCmd(a.engine)
		}
		return a, tea.Batch(prime, a.handleKey(msg))
	}

	if a.reminderPane.IsAdding() {
		return a, a.reminderPane.Update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := a.confirmDel.cmd
			a.confirmDel = nil
			return cmd
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	if a.reminderPane.IsAdding() {
		return a.reminderPane.Update(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, a.dashKeys.AddReminder):
		return a.reminderPane.StartAdding()

	case key.Matches(msg, a.dashKeys.DeleteReminder):
		r, ok := a.reminderPane.Selected()
		if !ok {
			a.SetStatus("No reminder selected", true)
			return nil
		}
		cmd := removeReminderCmd(a.engine, r)
		if !a.config.ConfirmDeletions {
			return cmd
		}
		a.confirmDel = &confirmDeleteState{
			title: "Delete reminder?",
			body:  truncateText(r.Title, 60),
			cmd:   cmd,
		}
		return nil

	case key.Matches(msg, a.dashKeys.ToggleBedtime):
		return toggleSleepCmd(a.engine, string(sleep.Bedtime))

	case key.Matches(msg, a.dashKeys.ToggleWakeup):
		return toggleSleepCmd(a.engine, string(sleep.Wakeup))

	case key.Matches(msg, a.dashKeys.ToggleSound):
		return toggleSoundCmd(a.engine)

	case key.Matches(msg, a.dashKeys.Preview):
		return previewCmd(a.engine)
	}

	return a.reminderPane.Update(msg)
}

func (a *App) refresh() {
	a.reminderPane.Refresh()
	a.sleepPane.Refresh()
}

// updateLayout recalculates pane sizes for the current terminal size.
func (a *App) updateLayout() {
	a.helpOverlay.SetSize(a.width, a.height)

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	// Title bar and help bar take one line each.
	contentHeight := max(8, a.height-3)

	if a.width < threshold {
		a.layoutMode = LayoutNarrow
		paneWidth := max(20, a.width-2)
		sleepHeight := 13
		a.reminderPane.SetSize(paneWidth, max(6, contentHeight-sleepHeight-2))
		a.sleepPane.SetSize(paneWidth, sleepHeight)
		return
	}

	a.layoutMode = LayoutWide
	sleepWidth := max(36, a.width*2/5)
	a.reminderPane.SetSize(a.width-sleepWidth-4, contentHeight-2)
	a.sleepPane.SetSize(sleepWidth-2, contentHeight-2)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.styles.StatLabelStyle.Render("Good night from luna.") + "\n"
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	now := a.engine.Now()

	var b strings.Builder
	b.WriteString(a.renderTitleBar(now))
	b.WriteString("\n")

	reminders := a.reminderPane.View(now)
	sleepView := a.sleepPane.View(now)
	if a.layoutMode == LayoutNarrow {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, reminders, sleepView))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, reminders, " ", sleepView))
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(a.styles.ItemStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(a.styles.HelpStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderTitleBar creates the top title bar with the next reminder and clock.
func (a *App) renderTitleBar(now time.Time) string {
	title := a.styles.TitleStyle.Render(" luna ")

	var items []string
	if next, ok := a.nextReminder(); ok {
		items = append(items, fmt.Sprintf("Next: %s %s",
			truncateText(next.Title, 24), reminder.RemainingTime(next.Time, now)))
	}
	if a.sleepPane.prefs.IsQuietHours(now) {
		items = append(items, a.styles.QuietStyle.Render("quiet hours"))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(items, "  "))

	date := a.styles.DateStyle.Render(now.Format("Mon Jan 2 · 15:04"))

	spacer := a.width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(date) - 4
	if spacer < 2 {
		spacer = 2
	}
	return title + "  " + stats + strings.Repeat(" ", spacer) + date
}

func (a *App) nextReminder() (reminder.Reminder, bool) {
	for _, r := range a.reminderPane.reminders {
		if !a.engine.Reminders().Fired(r.ID) {
			return r, true
		}
	}
	return reminder.Reminder{}, false
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.reminderPane.IsAdding() {
		return a.styles.RenderHelp(
			a.inputKeys.Confirm.Help().Key, "next/save",
			a.inputKeys.Cancel.Help().Key, "cancel",
		)
	}

	return a.styles.RenderHelp(
		a.dashKeys.AddReminder.Help().Key, "add",
		a.dashKeys.DeleteReminder.Help().Key, "del",
		a.dashKeys.ToggleBedtime.Help().Key, "bedtime",
		a.dashKeys.ToggleWakeup.Help().Key, "wake",
		a.dashKeys.ToggleSound.Help().Key, "sound",
		a.dashKeys.Preview.Help().Key, "preview",
		a.keys.Help.Help().Key, "help",
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

func truncateText(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// Run starts the Bubble Tea program over e.
func Run(e *engine.Engine, styles *Styles, cfg *AppConfig) error {
	app := NewApp(e, styles, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
