package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"luna/internal/config"
)

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "luna.log")
	logger, err := New(config.LogConfig{Level: "info", Format: "json", File: path}, Options{})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("reminder due", zap.String("id", "r-1"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "reminder due", entry["msg"])
	assert.Equal(t, "r-1", entry["id"])
	assert.Equal(t, "luna", entry["logger"])
}

func TestNew_VerboseAndFileOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "ui.log")
	logger, err := New(config.LogConfig{Level: "error", Format: "console", File: filepath.Join(dir, "cfg.log")},
		Options{Verbose: true, File: override})
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	logger.Debug("debug line")
	_ = logger.Sync()

	data, err := os.ReadFile(override)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug line")
	assert.NoFileExists(t, filepath.Join(dir, "cfg.log"))
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, Options{})
	assert.Error(t, err)

	_, err = New(config.LogConfig{Format: "xml"}, Options{})
	assert.Error(t, err)
}
