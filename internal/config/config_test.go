package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1000.0, cfg.GridSize)
	assert.Positive(t, cfg.Ticks)
	assert.Nil(t, cfg.Headings.Red)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	red := 1.0

	tests := []struct {
		name string
		mut  func(c *Config)
	}{
		{"grid too small", func(c *Config) { c.GridSize = 50 }},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }},
		{"zero sample interval", func(c *Config) { c.SampleEvery = 0 }},
		{"one heading", func(c *Config) { c.Headings.Red = &red }},
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	cfg := GetPreset("crossing")
	require.NotNil(t, cfg)
	cfg.Seed = 42

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid_size: 600\nheadings:\n  red: 0.5\n  blue: 1.5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 600.0, cfg.GridSize)
	assert.Equal(t, DefaultTicks, cfg.Ticks)
	require.NotNil(t, cfg.Headings.Red)
	assert.Equal(t, 0.5, *cfg.Headings.Red)
	assert.Equal(t, DefaultFPS, cfg.Display.FPS)
}

func TestLoadIntoLayersOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_every: 5\n"), 0644))

	cfg := GetPreset("headon")
	require.NoError(t, LoadInto(path, cfg))

	assert.Equal(t, 5, cfg.SampleEvery)
	assert.Equal(t, 2400, cfg.Ticks)
	require.NotNil(t, cfg.Headings.Red)
	assert.Equal(t, 0.0, *cfg.Headings.Red)
	assert.Equal(t, math.Pi, *GetPreset("headon").Headings.Blue)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ticks: -1\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("headon")
	require.NotNil(t, cfg)
	require.NotNil(t, cfg.Headings.Blue)
	assert.Equal(t, math.Pi, *cfg.Headings.Blue)

	*cfg.Headings.Blue = 0
	assert.Equal(t, math.Pi, *GetPreset("headon").Headings.Blue, "presets must be handed out as copies")

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"crossing", "default", "headon", "long", "small"}, ListPresets())
	for _, name := range ListPresets() {
		assert.NoError(t, GetPreset(name).Validate(), name)
	}
}
