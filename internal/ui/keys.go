// Package ui provides the luna terminal dashboard.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation and user customization.
package ui

import (
	"strings"

	"luna/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// helpKey is the label shown for a binding: its first key.
func helpKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func binding(custom, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey(keys), desc),
	)
}

// =============================================================================
// Global Keys
// =============================================================================

// GlobalKeyMap defines keys available outside input mode.
type GlobalKeyMap struct {
	Quit key.Binding
	Help key.Binding
	Up   key.Binding
	Down key.Binding
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: binding(cfg.Quit, "quit", "q", "ctrl+c"),
		Help: binding(cfg.Help, "help", "?"),
		Up:   binding(cfg.Up, "up", "k", "up"),
		Down: binding(cfg.Down, "down", "j", "down"),
	}
}

// ShortHelp returns bindings for the short help view.
func (k GlobalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k GlobalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Help, k.Quit}}
}

// =============================================================================
// Dashboard Keys
// =============================================================================

// DashboardKeyMap defines the actions on reminders, sleep alerts and
// notification settings.
type DashboardKeyMap struct {
	AddReminder    key.Binding
	DeleteReminder key.Binding
	ToggleBedtime  key.Binding
	ToggleWakeup   key.Binding
	ToggleSound    key.Binding
	Preview        key.Binding
}

// NewDashboardKeyMap creates dashboard key bindings from config.
func NewDashboardKeyMap(cfg *config.KeysConfig) DashboardKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return DashboardKeyMap{
		AddReminder:    binding(cfg.AddReminder, "add reminder", "a"),
		DeleteReminder: binding(cfg.DeleteReminder, "delete reminder", "x"),
		ToggleBedtime:  binding(cfg.ToggleBedtime, "toggle bedtime", "b"),
		ToggleWakeup:   binding(cfg.ToggleWakeup, "toggle wake-up", "w"),
		ToggleSound:    binding(cfg.ToggleSound, "toggle sound", "s"),
		Preview:        binding(cfg.Preview, "preview sound", "p"),
	}
}

// ShortHelp returns bindings for the short help view.
func (k DashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddReminder, k.DeleteReminder, k.ToggleSound}
}

// FullHelp returns bindings for the full help view.
func (k DashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddReminder, k.DeleteReminder},
		{k.ToggleBedtime, k.ToggleWakeup},
		{k.ToggleSound, k.Preview},
	}
}

// =============================================================================
// Input Keys
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: binding(cfg.Confirm, "save", "enter"),
		Cancel:  binding(cfg.Cancel, "cancel", "esc"),
	}
}

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q"),
			key.WithHelp("?/esc", "close help"),
		),
	}
}
