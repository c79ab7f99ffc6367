package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/boxsim/internal/arena"
)

func TestSnapshotFileName(t *testing.T) {
	assert.Equal(t, "simulation_state_42.json", SnapshotFileName(42))
}

func TestSaveLoadSnapshot(t *testing.T) {
	a, err := arena.New(arena.DefaultGridSize, arena.WithSeed(11))
	require.NoError(t, err)
	a.Initialize()
	for i := 0; i < 77; i++ {
		a.Step()
	}
	want := a.Snapshot()

	path := filepath.Join(t.TempDir(), SnapshotFileName(want.Tick))
	require.NoError(t, SaveSnapshot(path, want))

	got, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want.Fingerprint(), got.Fingerprint())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"tick\": 77,")
	assert.Contains(t, string(raw), "\"is_static\": true")
}

func TestDecodeLegacySnapshot(t *testing.T) {
	legacy := []byte(`{
  "time_step": 12,
  "grid_size": 1000,
  "objects": [
    {"type": "wall", "position": {"x": 500, "y": 10}, "velocity": {"x": 0, "y": 0}, "size": 20, "color": [0, 255, 0], "is_static": true},
    {"type": "red_block", "position": {"x": 112.5, "y": 100}, "velocity": {"x": 1, "y": 0}, "size": 30, "color": [255, 0, 0], "is_static": false}
  ]
}`)

	s, err := DecodeSnapshot(legacy)
	require.NoError(t, err)
	assert.Equal(t, 12, s.Tick)
	assert.Equal(t, 1000.0, s.GridSize)
	require.Len(t, s.Bodies, 2)
	assert.Equal(t, arena.Wall, s.Bodies[0].Kind)
	assert.True(t, s.Bodies[0].Static)
	assert.Equal(t, arena.RedBlock, s.Bodies[1].Kind)
	assert.Equal(t, arena.Vector{X: 112.5, Y: 100}, s.Bodies[1].Position)
	assert.Equal(t, arena.ColorRed, s.Bodies[1].Color)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeSnapshot([]byte(`{"tick": 1, "bodies": [{"kind": "purple"}]}`))
	assert.Error(t, err)
}
