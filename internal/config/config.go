// Package config handles configuration loading and defaults for luna.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/luna/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"luna/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.luna)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage selects where settings, reminders and sleep alerts are kept
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Audio configures tone playback
	Audio AudioConfig `yaml:"audio,omitempty"`

	// Scheduler configures how often alerts are checked
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`

	// Log configures diagnostic logging
	Log LogConfig `yaml:"log,omitempty"`

	// Notifications configures the desktop and vibration surfaces
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "json" (one file per key) or "sqlite"
	Backend string `yaml:"backend,omitempty"`
}

// AudioConfig defines tone playback settings.
type AudioConfig struct {
	// Enabled turns the audio device on; when false tones are timed but silent
	Enabled bool `yaml:"enabled"`

	// SampleRate of the output device in Hz
	SampleRate int `yaml:"sample_rate,omitempty"`
}

// SchedulerConfig defines the alert check cadence.
type SchedulerConfig struct {
	// TickInterval is a Go duration, e.g. "1s"
	TickInterval string `yaml:"tick_interval,omitempty"`
}

// LogConfig defines logging output.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level,omitempty"`

	// Format is "console" or "json"
	Format string `yaml:"format,omitempty"`

	// File receives log output instead of stderr when set
	File string `yaml:"file,omitempty"`
}

// NotificationConfig defines the non-audio alert surfaces.
type NotificationConfig struct {
	// Desktop enables platform notifications
	Desktop bool `yaml:"desktop"`

	// Vibration enables the terminal-bell vibration cue
	Vibration bool `yaml:"vibration"`

	// VibrationPattern alternates on/off durations in milliseconds
	VibrationPattern []int `yaml:"vibration_pattern,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Warning color for due reminders (hex)
	Warning string `yaml:"warning,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	Quit string `yaml:"quit,omitempty"` // default: "q,ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	Up   string `yaml:"up,omitempty"`   // default: "k,up"
	Down string `yaml:"down,omitempty"` // default: "j,down"

	AddReminder    string `yaml:"add_reminder,omitempty"`    // default: "a"
	DeleteReminder string `yaml:"delete_reminder,omitempty"` // default: "x"

	ToggleBedtime string `yaml:"toggle_bedtime,omitempty"` // default: "b"
	ToggleWakeup  string `yaml:"toggle_wakeup,omitempty"`  // default: "w"
	ToggleSound   string `yaml:"toggle_sound,omitempty"`   // default: "s"
	Preview       string `yaml:"preview,omitempty"`        // default: "p"

	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Backend: "json",
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
		},
		Scheduler: SchedulerConfig{
			TickInterval: "1s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Notifications: NotificationConfig{
			Desktop:          true,
			Vibration:        true,
			VibrationPattern: []int{200, 100, 200},
		},
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
			Warning: "#F59E0B", // Amber
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".luna"
	}
	return filepath.Join(home, ".luna")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "luna")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "luna")
}

// Path returns the path to the config file, or "" when no home directory
// can be found.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads configuration from path, merging with defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	// Merge user config with defaults (presence-aware for booleans/slices)
	cfg.mergeFromYAML(&userCfg, &doc)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("storage.backend must be json or sqlite, got %q", c.Storage.Backend)
	}
	if _, err := c.TickInterval(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	for _, ms := range c.Notifications.VibrationPattern {
		if ms < 0 {
			return fmt.Errorf("notifications.vibration_pattern has negative duration %d", ms)
		}
	}
	return nil
}

// TickInterval parses Scheduler.TickInterval.
func (c *Config) TickInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Scheduler.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("scheduler.tick_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("scheduler.tick_interval must be positive, got %s", d)
	}
	return d, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans or slices (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.Storage.Backend != "" {
		c.Storage.Backend = strings.ToLower(other.Storage.Backend)
	}
	if other.Audio.SampleRate > 0 {
		c.Audio.SampleRate = other.Audio.SampleRate
	}
	if other.Scheduler.TickInterval != "" {
		c.Scheduler.TickInterval = other.Scheduler.TickInterval
	}

	if other.Log.Level != "" {
		c.Log.Level = strings.ToLower(other.Log.Level)
	}
	if other.Log.Format != "" {
		c.Log.Format = strings.ToLower(other.Log.Format)
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}

	// Theme merging
	mergeString(&c.Theme.Primary, other.Theme.Primary)
	mergeString(&c.Theme.Accent, other.Theme.Accent)
	mergeString(&c.Theme.Muted, other.Theme.Muted)
	mergeString(&c.Theme.Warning, other.Theme.Warning)

	// Keys merging
	mergeString(&c.Keys.Quit, other.Keys.Quit)
	mergeString(&c.Keys.Help, other.Keys.Help)
	mergeString(&c.Keys.Up, other.Keys.Up)
	mergeString(&c.Keys.Down, other.Keys.Down)
	mergeString(&c.Keys.AddReminder, other.Keys.AddReminder)
	mergeString(&c.Keys.DeleteReminder, other.Keys.DeleteReminder)
	mergeString(&c.Keys.ToggleBedtime, other.Keys.ToggleBedtime)
	mergeString(&c.Keys.ToggleWakeup, other.Keys.ToggleWakeup)
	mergeString(&c.Keys.ToggleSound, other.Keys.ToggleSound)
	mergeString(&c.Keys.Preview, other.Keys.Preview)
	mergeString(&c.Keys.Confirm, other.Keys.Confirm)
	mergeString(&c.Keys.Cancel, other.Keys.Cancel)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	// Fall back to conservative behavior if we can't inspect presence.
	if doc == nil || len(doc.Content) == 0 {
		c.mergeNonEmpty(other)
		if len(other.Notifications.VibrationPattern) > 0 {
			c.Notifications.VibrationPattern = other.Notifications.VibrationPattern
		}
		return
	}

	c.mergeNonEmpty(other)

	// Booleans and slices only when present in YAML.
	if yamlHasPath(doc, "audio", "enabled") {
		c.Audio.Enabled = other.Audio.Enabled
	}
	if yamlHasPath(doc, "notifications", "desktop") {
		c.Notifications.Desktop = other.Notifications.Desktop
	}
	if yamlHasPath(doc, "notifications", "vibration") {
		c.Notifications.Vibration = other.Notifications.Vibration
	}
	if yamlHasPath(doc, "notifications", "vibration_pattern") {
		c.Notifications.VibrationPattern = other.Notifications.VibrationPattern
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveFile(Path())
}

// SaveFile writes the configuration to path.
func (c *Config) SaveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	if c.DataDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.DataDir
	}
	if strings.HasPrefix(c.DataDir, "~/") || strings.HasPrefix(c.DataDir, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			trimmed := strings.TrimPrefix(c.DataDir, "~/")
			trimmed = strings.TrimPrefix(trimmed, `~\`)
			return filepath.Join(home, trimmed)
		}
	}
	return c.DataDir
}
