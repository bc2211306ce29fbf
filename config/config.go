package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"hotlyric/hotkey"
)

const defaultRegistrarTimeout = 2 * time.Second

type Config struct {
	LogPath   string `koanf:"log_path"`
	StorePath string `koanf:"store_path"` // settings database; empty means the XDG data dir

	RegistrarTimeoutMs int   `koanf:"registrar_timeout_ms"` // per registrar call (default: 2000)
	Notifications      *bool `koanf:"notifications"`        // notify when a shortcut is taken (default: true)
	Tray               *bool `koanf:"tray"`                 // default: false
	TUI                *bool `koanf:"tui"`                  // default: true
	Sound              *bool `koanf:"sound"`                // audible cue on invoke and on a taken shortcut (default: false)
	Verbose            bool  `koanf:"verbose"`

	// Per-action overrides of the built-in combinations, e.g. PlayPause = "Ctrl+Shift+Space".
	Defaults map[string]string `koanf:"defaults"`
}

// Load reads the given files, or the standard locations when none are given.
// Later files override earlier ones; missing files are skipped.
func Load(paths ...string) (*Config, error) {
	k := koanf.New(".")

	if len(paths) == 0 {
		paths = getConfigPaths()
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.LogPath != "" {
		cfg.LogPath = expandPath(cfg.LogPath)
	}
	if cfg.StorePath != "" {
		cfg.StorePath = expandPath(cfg.StorePath)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/hotlyric/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "hotlyric", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func (c *Config) RegistrarTimeout() time.Duration {
	if c.RegistrarTimeoutMs <= 0 {
		return defaultRegistrarTimeout
	}
	return time.Duration(c.RegistrarTimeoutMs) * time.Millisecond
}

func (c *Config) NotificationsEnabled() bool { return boolOr(c.Notifications, true) }
func (c *Config) TrayEnabled() bool          { return boolOr(c.Tray, false) }
func (c *Config) TUIEnabled() bool           { return boolOr(c.TUI, true) }
func (c *Config) SoundEnabled() bool         { return boolOr(c.Sound, false) }

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// DefaultCombinations parses the [defaults] table. Unknown actions and
// unparseable combinations are skipped and reported.
func (c *Config) DefaultCombinations() (map[hotkey.Action]hotkey.Combination, []error) {
	out := make(map[hotkey.Action]hotkey.Combination, len(c.Defaults))
	var errs []error
	for name, s := range c.Defaults {
		a, ok := hotkey.ParseAction(name)
		if !ok {
			errs = append(errs, fmt.Errorf("defaults: unknown action %q", name))
			continue
		}
		combo, err := hotkey.ParseCombination(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("defaults.%s: %w", name, err))
			continue
		}
		out[a] = combo
	}
	return out, errs
}
