// Package config loads the demo's settings from YAML. Embedded defaults are
// read first and an optional user file is layered on top.
package config

import (
	_ "embed"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalid = eris.New("invalid config")

// Config holds all demo configuration
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Grid     GridConfig     `yaml:"grid"`
	Assets   AssetsConfig   `yaml:"assets"`
	Snake    SnakeConfig    `yaml:"snake"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Log      LogConfig      `yaml:"log"`
}

// WindowConfig holds window and loop settings
type WindowConfig struct {
	Title string `yaml:"title"`
	TPS   int    `yaml:"tps"` // fixed updates per second
}

// GridConfig holds the board dimensions
type GridConfig struct {
	Size     int `yaml:"size"`      // cells per axis
	TileSize int `yaml:"tile_size"` // pixels per cell
}

type AssetsConfig struct {
	SpriteSheet string `yaml:"spritesheet"`
}

type SnakeConfig struct {
	Lifetime int `yaml:"lifetime"` // ticks before the head is removed
}

type DispatchConfig struct {
	Parallel bool `yaml:"parallel"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the embedded defaults
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, eris.Wrap(err, "failed to parse embedded defaults")
	}
	return cfg, nil
}

// Load reads the defaults and overlays the file at path, if path is not empty.
// Keys missing from the file keep their default value.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrapf(err, "failed to parse config %s", path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the demo cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Window.TPS <= 0:
		return eris.Wrapf(ErrInvalid, "window.tps must be positive, got %d", c.Window.TPS)
	case c.Grid.Size <= 0:
		return eris.Wrapf(ErrInvalid, "grid.size must be positive, got %d", c.Grid.Size)
	case c.Grid.TileSize <= 1:
		return eris.Wrapf(ErrInvalid, "grid.tile_size must be greater than 1, got %d", c.Grid.TileSize)
	case c.Snake.Lifetime < 0:
		return eris.Wrapf(ErrInvalid, "snake.lifetime must not be negative, got %d", c.Snake.Lifetime)
	case c.Assets.SpriteSheet == "":
		return eris.Wrap(ErrInvalid, "assets.spritesheet must be set")
	}
	return nil
}

// WindowSize is the side of the square window in pixels
func (c *Config) WindowSize() int {
	return c.Grid.Size * c.Grid.TileSize
}

// Timestep is the duration of one fixed update
func (c *Config) Timestep() time.Duration {
	return time.Second / time.Duration(c.Window.TPS)
}
