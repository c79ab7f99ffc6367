package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arenaCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "run"}
	addArenaFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfigPresetThenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_every: 5\n"), 0644))

	cfg, err := resolveConfig(arenaCmd(t, "--preset", "headon", "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.SampleEvery)
	assert.Equal(t, 2400, cfg.Ticks)
	require.NotNil(t, cfg.Headings.Red)
	require.NotNil(t, cfg.Headings.Blue)
	assert.Equal(t, 0.0, *cfg.Headings.Red)
	assert.Equal(t, math.Pi, *cfg.Headings.Blue)
}

func TestResolveConfigFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ticks: 900\ngrid_size: 600\n"), 0644))

	cfg, err := resolveConfig(arenaCmd(t, "--preset", "small", "--config", path, "--ticks", "50"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Ticks)
	assert.Equal(t, 600.0, cfg.GridSize)
}

func TestResolveConfigHeadingPair(t *testing.T) {
	_, err := resolveConfig(arenaCmd(t, "--red", "1"))
	assert.Error(t, err)

	cfg, err := resolveConfig(arenaCmd(t, "--red", "1", "--blue", "2"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, *cfg.Headings.Red)
	assert.Equal(t, 2.0, *cfg.Headings.Blue)
}
