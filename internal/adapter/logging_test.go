package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "eposter.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "INFO"})
	require.NoError(t, err)

	logger.Info("display started", "posters", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"display started"`)
	assert.Contains(t, string(data), `"posters":3`)
}

func TestSetupLoggerHonorsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eposter.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "WARN"})
	require.NoError(t, err)

	logger.Debug("suppressed")
	logger.Info("suppressed too")
	logger.Warn("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "suppressed")
	assert.Contains(t, string(data), "kept")
}

func TestSetupLoggerExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logger, err := SetupLogger(&LoggingConfig{File: "~/logs/eposter.log", Level: "INFO"})
	require.NoError(t, err)
	logger.Info("hello")

	assert.FileExists(t, filepath.Join(home, "logs", "eposter.log"))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestNullLoggerDiscards(t *testing.T) {
	logger := NullLogger()
	assert.NotPanics(t, func() {
		logger.Info("into the void", "key", strings.Repeat("x", 10))
	})
}
