package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glaze.log")

	logger, err := New(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("preset fallback", zap.String("preset_key", "increase_boron:slight"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	require.Equal(t, "preset fallback", entry["msg"])
	require.Equal(t, "increase_boron:slight", entry["preset_key"])
	require.Equal(t, Service, entry["service"])
	require.Contains(t, entry, "timestamp")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Config{Level: "loud", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.DebugLevel))
	require.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestNew_BadOutputPath(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	require.Error(t, err)
}

func TestComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	prev := L
	t.Cleanup(func() { L = prev })

	require.NoError(t, Initialize(Config{Level: "INFO", Format: "json", Output: path}))
	Component("api").Warn("no preset for modification")
	Debug("dropped")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "api", entry["component"])
	require.Equal(t, "warn", entry["level"])
}

func TestNew_ConsoleToFileHasNoColour(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.log")
	logger, err := New(Config{Format: "text", Output: path})
	require.NoError(t, err)

	logger.Info("order priced")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "INFO")
	require.NotContains(t, string(data), "\x1b[")
}
