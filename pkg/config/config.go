// Package config holds the persistent editor settings, stored as TOML in
// ~/.spriteedit.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Defaults and limits.
const (
	DefaultCanvasSize = 16
	MaxCanvasSize     = 32
	DefaultPickerSize = 32
	DefaultPreview    = 32
	maxFPS            = 60
)

// Config holds editor settings.
type Config struct {
	DefaultCanvasSize int    `toml:"default_canvas_size"`
	MaxCanvasSize     int    `toml:"max_canvas_size"`
	PickerSize        int    `toml:"picker_size"`
	PreviewSize       int    `toml:"preview_size"`
	ActualSizePreview bool   `toml:"actual_size_preview"`
	DefaultFPS        int    `toml:"default_fps"`
	LastDir           string `toml:"last_dir"`
	LogLevel          string `toml:"log_level"`
	LogFile           bool   `toml:"log_file"`
}

// Default returns the default configuration.
func Default() Config {
	cwd, _ := os.Getwd()
	return Config{
		DefaultCanvasSize: DefaultCanvasSize,
		MaxCanvasSize:     MaxCanvasSize,
		PickerSize:        DefaultPickerSize,
		PreviewSize:       DefaultPreview,
		LastDir:           cwd,
		LogLevel:          "info",
	}
}

// Path returns the path to the config file.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spriteedit.toml"
	}
	return filepath.Join(home, ".spriteedit.toml")
}

// Load reads the config at path. A missing file yields the defaults; keys
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	content := append([]byte("# spriteedit configuration\n"), data...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize replaces out-of-range values with defaults.
func (c *Config) Normalize() {
	if c.MaxCanvasSize < 1 {
		c.MaxCanvasSize = MaxCanvasSize
	}
	if c.DefaultCanvasSize < 1 || c.DefaultCanvasSize > c.MaxCanvasSize {
		c.DefaultCanvasSize = DefaultCanvasSize
		if c.DefaultCanvasSize > c.MaxCanvasSize {
			c.DefaultCanvasSize = c.MaxCanvasSize
		}
	}
	if c.PickerSize < 4 {
		c.PickerSize = DefaultPickerSize
	}
	if c.PreviewSize < 1 {
		c.PreviewSize = DefaultPreview
	}
	if c.DefaultFPS < 0 || c.DefaultFPS > maxFPS {
		c.DefaultFPS = 0
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		c.LogLevel = "info"
	}
}
