package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotlyric/hotkey"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/logs", filepath.Join(home, "logs")},
		{"absolute path unchanged", "/var/log/hotlyric", "/var/log/hotlyric"},
		{"relative path unchanged", "logs", "logs"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, "config.toml", paths[len(paths)-1])
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.RegistrarTimeout())
	assert.True(t, cfg.NotificationsEnabled())
	assert.True(t, cfg.TUIEnabled())
	assert.False(t, cfg.TrayEnabled())
	assert.False(t, cfg.SoundEnabled())
	assert.Empty(t, cfg.LogPath)
}

func TestLoadValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
log_path = "/tmp/hotlyric-logs"
store_path = "/tmp/hotlyric.db"
registrar_timeout_ms = 250
notifications = false
tray = true
tui = false
sound = true

[defaults]
PlayPause = "Ctrl+Shift+Space"
nextmedia = "Ctrl+Alt+F11"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/hotlyric-logs", cfg.LogPath)
	assert.Equal(t, "/tmp/hotlyric.db", cfg.StorePath)
	assert.Equal(t, 250*time.Millisecond, cfg.RegistrarTimeout())
	assert.False(t, cfg.NotificationsEnabled())
	assert.True(t, cfg.TrayEnabled())
	assert.False(t, cfg.TUIEnabled())
	assert.True(t, cfg.SoundEnabled())

	defaults, errs := cfg.DefaultCombinations()
	assert.Empty(t, errs)
	assert.Equal(t, map[hotkey.Action]hotkey.Combination{
		hotkey.ActionPlayPause: {Modifiers: hotkey.ModCtrl | hotkey.ModShift, Key: hotkey.KeySpace},
		hotkey.ActionNextMedia: {Modifiers: hotkey.ModCtrl | hotkey.ModAlt, Key: hotkey.F(11)},
	}, defaults)
}

func TestLaterFileWins(t *testing.T) {
	first := writeConfig(t, t.TempDir(), "registrar_timeout_ms = 100\ntray = true\n")
	second := writeConfig(t, t.TempDir(), "registrar_timeout_ms = 900\n")

	cfg, err := Load(first, second)
	require.NoError(t, err)
	assert.Equal(t, 900*time.Millisecond, cfg.RegistrarTimeout())
	assert.True(t, cfg.TrayEnabled())
}

func TestInvalidDefaultsReported(t *testing.T) {
	cfg := &Config{Defaults: map[string]string{
		"Rewind":     "Ctrl+R",
		"LockUnlock": "Ctrl+Nope",
		"OpenPlayer": "Win+H",
	}}
	defaults, errs := cfg.DefaultCombinations()
	assert.Len(t, errs, 2)
	assert.Equal(t, map[hotkey.Action]hotkey.Combination{
		hotkey.ActionOpenPlayer: {Modifiers: hotkey.ModWin, Key: hotkey.Letter('H')},
	}, defaults)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "tray = [")
	_, err := Load(path)
	assert.Error(t, err)
}
