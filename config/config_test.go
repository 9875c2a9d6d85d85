package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/gridsnake/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "ECS + Ebiten", cfg.Window.Title)
	assert.Equal(t, 15, cfg.Window.TPS)
	assert.Equal(t, 20, cfg.Grid.Size)
	assert.Equal(t, 20, cfg.Grid.TileSize)
	assert.Equal(t, "./assets/spritesheet.png", cfg.Assets.SpriteSheet)
	assert.Equal(t, 5, cfg.Snake.Lifetime)
	assert.False(t, cfg.Dispatch.Parallel)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Equal(t, 400, cfg.WindowSize())
	assert.Equal(t, time.Second/15, cfg.Timestep())
}

func TestOverlayKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, "grid:\n  size: 10\nsnake:\n  lifetime: 2\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Grid.Size)
	assert.Equal(t, 20, cfg.Grid.TileSize)
	assert.Equal(t, 2, cfg.Snake.Lifetime)
	assert.Equal(t, 15, cfg.Window.TPS)
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero tps", "window:\n  tps: 0\n"},
		{"negative grid", "grid:\n  size: -1\n"},
		{"tile too small", "grid:\n  tile_size: 1\n"},
		{"negative lifetime", "snake:\n  lifetime: -3\n"},
		{"empty spritesheet", "assets:\n  spritesheet: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrInvalid), "unexpected error: %v", err)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMalformedFile(t *testing.T) {
	_, err := config.Load(writeConfig(t, "grid: [unterminated"))
	assert.Error(t, err)
}
