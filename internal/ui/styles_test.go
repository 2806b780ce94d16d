package ui

import (
	"testing"

	"luna/internal/config"

	"github.com/charmbracelet/lipgloss"
)

func TestNewStyles_UsesThemeColors(t *testing.T) {
	theme := &config.ThemeConfig{
		Primary: "#FF0000",
		Accent:  "#00FF00",
		Muted:   "#0000FF",
		Warning: "#FFFF00",
	}

	styles := NewStylesFromTheme(theme)

	if styles.ColorPrimary != lipgloss.Color("#FF0000") {
		t.Errorf("ColorPrimary = %v, want #FF0000", styles.ColorPrimary)
	}
	if styles.ColorAccent != lipgloss.Color("#00FF00") {
		t.Errorf("ColorAccent = %v, want #00FF00", styles.ColorAccent)
	}
	if styles.ColorMuted != lipgloss.Color("#0000FF") {
		t.Errorf("ColorMuted = %v, want #0000FF", styles.ColorMuted)
	}
	if styles.ColorWarning != lipgloss.Color("#FFFF00") {
		t.Errorf("ColorWarning = %v, want #FFFF00", styles.ColorWarning)
	}
}

func TestNewStyles_UsesDefaults(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{})

	if styles.ColorPrimary != lipgloss.Color("#8B5CF6") {
		t.Errorf("ColorPrimary = %v, want default #8B5CF6", styles.ColorPrimary)
	}
	if styles.ColorWarning != lipgloss.Color("#F59E0B") {
		t.Errorf("ColorWarning = %v, want default #F59E0B", styles.ColorWarning)
	}
}

func TestNewStyles_FromConfig(t *testing.T) {
	cfg := config.Default()
	styles := NewStyles(cfg)

	if styles.ColorPrimary != lipgloss.Color(cfg.Theme.Primary) {
		t.Errorf("ColorPrimary = %v, want %s", styles.ColorPrimary, cfg.Theme.Primary)
	}
}

func TestRenderHelp(t *testing.T) {
	setupTest(t)
	styles := createTestStyles()

	got := styles.RenderHelp("a", "add", "x", "del")
	if got != "[a] add  [x] del" {
		t.Errorf("RenderHelp() = %q", got)
	}
	if got := styles.RenderHelp("odd"); got != "" {
		t.Errorf("RenderHelp(odd) = %q, want empty", got)
	}
}

func TestBadge(t *testing.T) {
	setupTest(t)
	styles := createTestStyles()

	if styles.Badge(true) == styles.Badge(false) {
		t.Error("on and off badges should differ")
	}
}
