// Package config persists application settings as TOML under the user
// config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all persisted application settings.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Preview PreviewConfig `toml:"preview"`
	History HistoryConfig `toml:"history"`
	Paths   PathsConfig   `toml:"paths"`
	Script  ScriptConfig  `toml:"script"`
	Debug   bool          `toml:"debug"`
}

// WindowConfig holds the main window geometry.
type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// PreviewConfig holds preview rendering settings.
type PreviewConfig struct {
	LongestSide int `toml:"longest_side"`
	DebounceMs  int `toml:"debounce_ms"`
}

// HistoryConfig holds edit history settings.
type HistoryConfig struct {
	Capacity int `toml:"capacity"`
}

// PathsConfig remembers filesystem locations between runs.
type PathsConfig struct {
	LastDirectory string `toml:"last_directory"`
}

// ScriptConfig holds Lua automation settings.
type ScriptConfig struct {
	Path string `toml:"path"`
}

// Default returns a Config with all default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1400,
			Height: 900,
		},
		Preview: PreviewConfig{
			LongestSide: 1600,
			DebounceMs:  200,
		},
		History: HistoryConfig{
			Capacity: 64,
		},
	}
}

// Path returns the per-user config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "darktable", "config.toml"), nil
}

// Load reads the config file, falling back to defaults when it does not
// exist yet.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to the per-user location.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config atomically: a temp file in the same directory,
// then a rename over the target.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(c); err != nil {
		tmp.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Debounce returns the preview debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Preview.DebounceMs) * time.Millisecond
}

// normalize clamps out-of-range values to usable bounds.
func (c *Config) normalize() {
	def := Default()
	if c.Window.Width < 640 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height < 480 {
		c.Window.Height = def.Window.Height
	}
	if c.Preview.LongestSide < 256 || c.Preview.LongestSide > 8192 {
		c.Preview.LongestSide = def.Preview.LongestSide
	}
	if c.Preview.DebounceMs < 0 || c.Preview.DebounceMs > 2000 {
		c.Preview.DebounceMs = def.Preview.DebounceMs
	}
	if c.History.Capacity < 8 || c.History.Capacity > 1024 {
		c.History.Capacity = def.History.Capacity
	}
}
