// Package config holds persistent simulator settings.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds persistent barsim settings.
type Config struct {
	Bar      BarSettings `toml:"bar"`
	Registry string      `toml:"registry"`   // registry file; empty for builtins
	Type     string      `toml:"input_type"` // input type pushed at startup; empty for none
	LastDir  string      `toml:"last_dir"`   // last scenario directory
	Debug    bool        `toml:"debug"`
}

// BarSettings sizes the simulated bar, in terminal cells.
type BarSettings struct {
	Width        int `toml:"width"`
	Height       int `toml:"height"`
	IconSize     int `toml:"icon_size"`
	CornerRadius int `toml:"corner_radius"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Bar: BarSettings{
			Width:        40,
			Height:       1,
			IconSize:     3,
			CornerRadius: 1,
		},
	}
}

// Dir returns the directory for actionbar config files, using
// XDG_CONFIG_HOME or falling back to ~/.config.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "actionbar"), nil
}

// Path returns the full path to barsim.toml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "barsim.toml"), nil
}

// Load reads the config file. A missing file yields Default.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads path. A missing file yields Default.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults and normalises the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parse barsim.toml: %w", err)
	}
	return normalize(cfg), nil
}

func normalize(c Config) Config {
	def := Default()
	if c.Bar.Width < 12 || c.Bar.Width > 200 {
		c.Bar.Width = def.Bar.Width
	}
	if c.Bar.Height < 1 || c.Bar.Height > 5 {
		c.Bar.Height = def.Bar.Height
	}
	if c.Bar.IconSize < 1 || c.Bar.IconSize > c.Bar.Width/4 {
		c.Bar.IconSize = def.Bar.IconSize
	}
	if c.Bar.CornerRadius < 0 || c.Bar.CornerRadius > c.Bar.Width/4 {
		c.Bar.CornerRadius = def.Bar.CornerRadius
	}
	c.Registry = strings.TrimSpace(c.Registry)
	c.Type = strings.TrimSpace(c.Type)
	return c
}

// Save writes cfg to the config file.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, creating its directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("# barsim configuration\n")
	if err := toml.NewEncoder(&buf).Encode(normalize(cfg)); err != nil {
		return fmt.Errorf("encode barsim.toml: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write barsim.toml: %w", err)
	}
	return nil
}
