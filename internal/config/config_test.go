package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "luna")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Storage.Backend != "json" {
		t.Errorf("Storage.Backend = %q, want json", cfg.Storage.Backend)
	}
	if !cfg.Audio.Enabled {
		t.Error("Audio.Enabled should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
	if d, _ := cfg.TickInterval(); d != time.Second {
		t.Errorf("TickInterval() = %v, want 1s", d)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != "#7C3AED" {
		t.Errorf("Theme.Primary = %q, want #7C3AED", cfg.Theme.Primary)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	writeConfig(t, `
data_dir: /custom/data
storage:
  backend: SQLite
scheduler:
  tick_interval: 250ms
log:
  level: debug
  format: json
theme:
  primary: "#FF0000"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if d, _ := cfg.TickInterval(); d != 250*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 250ms", d)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Theme.Primary != "#FF0000" {
		t.Errorf("Theme.Primary = %q, want #FF0000", cfg.Theme.Primary)
	}
	// Muted should still be default
	if cfg.Theme.Muted != "#6B7280" {
		t.Errorf("Theme.Muted = %q, want #6B7280", cfg.Theme.Muted)
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	override := &Config{
		DataDir: "/override/path",
		Theme: ThemeConfig{
			Primary: "#CUSTOM",
		},
		Keys: KeysConfig{
			Preview: "enter",
		},
	}

	base.mergeNonEmpty(override)

	if base.DataDir != "/override/path" {
		t.Errorf("DataDir = %q, want /override/path", base.DataDir)
	}
	if base.Theme.Primary != "#CUSTOM" {
		t.Errorf("Theme.Primary = %q, want #CUSTOM", base.Theme.Primary)
	}
	if base.Keys.Preview != "enter" {
		t.Errorf("Keys.Preview = %q, want enter", base.Keys.Preview)
	}
	// Accent should remain default
	if base.Theme.Accent != "#10B981" {
		t.Errorf("Theme.Accent = %q, want #10B981", base.Theme.Accent)
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	writeConfig(t, `
theme:
  primary: "#FF0000"
notifications:
  desktop: false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Notifications.Desktop {
		t.Errorf("Notifications.Desktop = %v, want false", cfg.Notifications.Desktop)
	}
	if !cfg.Notifications.Vibration {
		t.Errorf("Notifications.Vibration = %v, want true", cfg.Notifications.Vibration)
	}
	if !cfg.Audio.Enabled {
		t.Errorf("Audio.Enabled = %v, want true", cfg.Audio.Enabled)
	}
	if !reflect.DeepEqual(cfg.Notifications.VibrationPattern, []int{200, 100, 200}) {
		t.Errorf("VibrationPattern = %v, want default", cfg.Notifications.VibrationPattern)
	}
}

func TestLoad_ExplicitValuesOverrideDefaults(t *testing.T) {
	writeConfig(t, `
audio:
  enabled: false
  sample_rate: 48000
notifications:
  vibration_pattern: [50, 50, 50, 50, 50]
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audio.Enabled {
		t.Errorf("Audio.Enabled = %v, want false", cfg.Audio.Enabled)
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("Audio.SampleRate = %d, want 48000", cfg.Audio.SampleRate)
	}
	if !reflect.DeepEqual(cfg.Notifications.VibrationPattern, []int{50, 50, 50, 50, 50}) {
		t.Errorf("VibrationPattern = %v", cfg.Notifications.VibrationPattern)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "storage: [unclosed"},
		{"bad backend", "storage:\n  backend: redis\n"},
		{"bad interval", "scheduler:\n  tick_interval: soon\n"},
		{"negative interval", "scheduler:\n  tick_interval: -1s\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"negative pattern", "notifications:\n  vibration_pattern: [100, -5]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)
			if _, err := Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestGetDataDir(t *testing.T) {
	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{name: "absolute path", dataDir: "/custom/path", want: "/custom/path"},
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		tests = append(tests,
			struct {
				name    string
				dataDir string
				want    string
			}{name: "tilde expands home", dataDir: "~", want: home},
			struct {
				name    string
				dataDir string
				want    string
			}{name: "tilde path expands home", dataDir: "~/mydata", want: filepath.Join(home, "mydata")},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: tt.dataDir}
			if got := cfg.GetDataDir(); got != tt.want {
				t.Errorf("GetDataDir() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("empty uses default", func(t *testing.T) {
		got := (&Config{}).GetDataDir()
		if filepath.Base(got) != ".luna" {
			t.Errorf("GetDataDir() = %q, want to end with .luna", got)
		}
	})
}

func TestSave(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Audio.Enabled = false
	cfg.Theme.Primary = "#SAVED"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath := filepath.Join(tempDir, "luna", "config.yaml")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DataDir != "/saved/path" {
		t.Errorf("loaded DataDir = %q, want /saved/path", loaded.DataDir)
	}
	if loaded.Audio.Enabled {
		t.Error("loaded Audio.Enabled = true, want false")
	}
	if loaded.Theme.Primary != "#SAVED" {
		t.Errorf("loaded Theme.Primary = %q, want #SAVED", loaded.Theme.Primary)
	}
}
