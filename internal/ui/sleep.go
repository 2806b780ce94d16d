package ui

import (
	"fmt"
	"strings"
	"time"

	"luna/internal/engine"
	"luna/internal/settings"
	"luna/internal/sleep"

	"github.com/charmbracelet/lipgloss"
)

// SleepPane shows the two sleep alerts and the notification settings.
type SleepPane struct {
	engine *engine.Engine
	styles *Styles
	alerts []sleep.Alert
	prefs  settings.NotificationSettings
	width  int
	height int
}

// NewSleepPane creates a sleep pane.
func NewSleepPane(e *engine.Engine, styles *Styles) *SleepPane {
	p := &SleepPane{engine: e, styles: styles}
	p.Refresh()
	return p
}

// Refresh re-reads alerts and settings from the engine.
func (p *SleepPane) Refresh() {
	p.alerts = p.engine.Sleep().List()
	p.prefs = p.engine.Settings().Snapshot()
}

// SetSize sets the pane dimensions.
func (p *SleepPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the sleep pane.
func (p *SleepPane) View(now time.Time) string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("🌙 SLEEP"))
	b.WriteString("\n")
	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	for _, a := range p.alerts {
		b.WriteString(fmt.Sprintf(" %s %-8s %s  %s\n",
			p.styles.Badge(a.Enabled),
			a.Title(),
			p.styles.StatValueStyle.Render(a.Time),
			p.styles.StatLabelStyle.Render(a.SoundType),
		))
	}
	if !p.prefs.SleepAlertsEnabled {
		b.WriteString(p.styles.StatLabelStyle.Render("  sleep alerts are paused"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.PaneTitleStyle.Render("🔔 SETTINGS"))
	b.WriteString("\n")
	p.writeSetting(&b, "Sound", p.prefs.SoundEnabled,
		fmt.Sprintf("%s %d%%", p.prefs.DefaultSoundType, int(p.prefs.NotificationVolume*100+0.5)))
	p.writeSetting(&b, "Vibration", p.prefs.VibrationEnabled, "")
	p.writeSetting(&b, "Desktop", p.prefs.NotificationsEnabled, "")
	p.writeSetting(&b, "Reminders", p.prefs.RemindersEnabled, "")

	quiet := fmt.Sprintf("%s-%s", p.prefs.QuietHoursStart, p.prefs.QuietHoursEnd)
	if p.prefs.IsQuietHours(now) {
		quiet += "  " + p.styles.QuietStyle.Render("quiet now")
	}
	p.writeSetting(&b, "Quiet", p.prefs.QuietHoursEnabled, quiet)

	return p.styles.PaneStyle.Width(p.width).Height(p.height).Render(b.String())
}

func (p *SleepPane) writeSetting(b *strings.Builder, label string, on bool, detail string) {
	line := fmt.Sprintf(" %s %-9s", p.styles.Badge(on), label)
	if detail != "" {
		line += " " + p.styles.StatLabelStyle.Render(detail)
	}
	b.WriteString(line)
	b.WriteString("\n")
}
