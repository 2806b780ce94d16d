package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"luna/internal/config"
	"luna/internal/engine"
	"luna/internal/reminder"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// soonWindow highlights reminders due within this long.
const soonWindow = 10 * time.Minute

type inputStep int

const (
	stepTitle inputStep = iota
	stepWhen
)

// ReminderPane lists scheduled reminders and collects new ones.
type ReminderPane struct {
	engine    *engine.Engine
	styles    *Styles
	reminders []reminder.Reminder
	cursor    int
	width     int
	height    int

	adding bool
	step   inputStep
	title  string
	input  textinput.Model

	nav       GlobalKeyMap
	inputKeys InputKeyMap
}

// NewReminderPane creates a reminder pane with custom key bindings.
func NewReminderPane(e *engine.Engine, styles *Styles, keyCfg *config.KeysConfig) *ReminderPane {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	p := &ReminderPane{
		engine:    e,
		styles:    styles,
		input:     ti,
		nav:       NewGlobalKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
	p.Refresh()
	return p
}

// Refresh reloads the list from the scheduler, soonest first.
func (p *ReminderPane) Refresh() {
	list := p.engine.Reminders().List()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Time.Before(list[j].Time)
	})
	p.reminders = list
	if p.cursor >= len(p.reminders) {
		p.cursor = max(0, len(p.reminders)-1)
	}
}

// SetSize sets the pane dimensions.
func (p *ReminderPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-10)
}

// IsAdding reports whether the pane is collecting input.
func (p *ReminderPane) IsAdding() bool {
	return p.adding
}

// Selected returns the reminder under the cursor.
func (p *ReminderPane) Selected() (reminder.Reminder, bool) {
	if p.cursor < 0 || p.cursor >= len(p.reminders) {
		return reminder.Reminder{}, false
	}
	return p.reminders[p.cursor], true
}

// StartAdding switches to input mode, asking for the title first.
func (p *ReminderPane) StartAdding() tea.Cmd {
	p.adding = true
	p.step = stepTitle
	p.title = ""
	p.input.Reset()
	p.input.Placeholder = "What should luna remind you of?"
	p.input.Focus()
	return textinput.Blink
}

func (p *ReminderPane) stopAdding() {
	p.adding = false
	p.title = ""
	p.input.Reset()
	p.input.Blur()
}

// Update handles key input. Navigation is only handled outside input mode.
func (p *ReminderPane) Update(msg tea.Msg) tea.Cmd {
	if p.adding {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Cancel):
				p.stopAdding()
				return nil

			case key.Matches(msg, p.inputKeys.Confirm):
				value := strings.TrimSpace(p.input.Value())
				if p.step == stepTitle {
					if value == "" {
						p.stopAdding()
						return nil
					}
					p.title = value
					p.step = stepWhen
					p.input.Reset()
					p.input.Placeholder = "When? 15:30, 45m (empty: in 30 minutes)"
					return nil
				}
				title := p.title
				p.stopAdding()
				return addReminderCmd(p.engine, title, value)
			}
		}

		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, p.nav.Down):
		if len(p.reminders) > 0 {
			p.cursor = min(p.cursor+1, len(p.reminders)-1)
		}
	case key.Matches(keyMsg, p.nav.Up):
		p.cursor = max(p.cursor-1, 0)
	}
	return nil
}

// View renders the reminder pane.
func (p *ReminderPane) View(now time.Time) string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("⏰ REMINDERS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.reminders) == 0 && !p.adding {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).
			Render("  No reminders. Press 'a' to add one."))
		b.WriteString("\n")
	}

	maxRows := p.height - 6
	if maxRows < 3 {
		maxRows = 5
	}
	startIdx := 0
	if p.cursor >= maxRows {
		startIdx = p.cursor - maxRows + 1
	}

	pending := 0
	for i, r := range p.reminders {
		fired := p.engine.Reminders().Fired(r.ID)
		if !fired {
			pending++
		}
		if i < startIdx || i >= startIdx+maxRows {
			continue
		}
		b.WriteString(p.renderRow(i, r, fired, now))
		b.WriteString("\n")
	}

	if len(p.reminders) > 0 {
		b.WriteString("\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d pending, %d total", pending, len(p.reminders))))
		b.WriteString("\n")
	}

	if p.adding {
		b.WriteString("\n")
		prompt := "+ "
		if p.step == stepWhen {
			prompt = runewidth.Truncate(p.title, 20, "…") + " @ "
		}
		b.WriteString(p.styles.InputPromptStyle.Render(prompt) + p.input.View())
		b.WriteString("\n")
	}

	return p.styles.PaneFocusedStyle.Width(p.width).Height(p.height).Render(b.String())
}

func (p *ReminderPane) renderRow(i int, r reminder.Reminder, fired bool, now time.Time) string {
	remaining := reminder.RemainingTime(r.Time, now)
	if fired {
		remaining = "done"
	}
	remainingWidth := runewidth.StringWidth(remaining)

	// Layout: [space][icon][space][title][padding][remaining]
	iconWidth := runewidth.StringWidth(r.Icon)
	available := p.width - 4 - 3 - iconWidth - remainingWidth
	if available < 5 {
		available = 5
	}
	title := runewidth.Truncate(r.Title, available, "..")
	padding := max(1, available-runewidth.StringWidth(title))

	if i == p.cursor && !p.adding {
		line := fmt.Sprintf("%s %s%s%s", r.Icon, title, strings.Repeat(" ", padding), remaining)
		return p.styles.ItemSelectedStyle.Render(" " + line + " ")
	}

	styledTitle := p.styles.ItemStyle.Render(title)
	styledRemaining := p.styles.DueLaterStyle.Render(remaining)
	switch {
	case fired:
		styledTitle = p.styles.ItemFiredStyle.Render(title)
	case r.Time.Sub(now) <= soonWindow:
		styledRemaining = p.styles.DueSoonStyle.Render(remaining)
	}
	return fmt.Sprintf(" %s %s%s%s", r.Icon, styledTitle, strings.Repeat(" ", padding), styledRemaining)
}
