package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width     int
	height    int
	styles    *Styles
	global    GlobalKeyMap
	dashboard DashboardKeyMap
	input     InputKeyMap
}

// NewHelpOverlay creates a new help overlay listing the given bindings.
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, dashboard DashboardKeyMap, input InputKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles:    styles,
		global:    global,
		dashboard: dashboard,
		input:     input,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	row := func(b *strings.Builder, bindings ...key.Binding) {
		for _, k := range bindings {
			b.WriteString(keyStyle.Render(k.Help().Key) + descStyle.Render(k.Help().Desc) + "\n")
		}
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("🌙 luna - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Global"))
	b.WriteString("\n")
	row(&b, h.global.Up, h.global.Down, h.global.Help, h.global.Quit)

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Reminders"))
	b.WriteString("\n")
	row(&b, h.dashboard.AddReminder, h.dashboard.DeleteReminder)

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Sleep & Sound"))
	b.WriteString("\n")
	row(&b, h.dashboard.ToggleBedtime, h.dashboard.ToggleWakeup, h.dashboard.ToggleSound, h.dashboard.Preview)

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Input Mode"))
	b.WriteString("\n")
	row(&b, h.input.Confirm, h.input.Cancel)

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
