package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/sim"
)

func runArena(t *testing.T, ticks, every int) *sim.Result {
	t.Helper()
	a, err := arena.New(arena.DefaultGridSize, arena.WithHeadings(0.9, 4.4))
	require.NoError(t, err)
	a.Initialize()

	result, err := sim.New(a, nil).Run(context.Background(), sim.Config{Ticks: ticks, SampleEvery: every})
	require.NoError(t, err)
	result.Metrics["contacts"] = float64(result.Contacts)
	return result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir(), nil)
	require.NoError(t, st.Init())

	result := runArena(t, 120, 10)
	meta, err := st.Save(RunInfo{GridSize: 1000, Ticks: 120, SampleEvery: 10, Seed: 42}, result)
	require.NoError(t, err)
	require.NotEmpty(t, meta.ID)

	loaded, err := st.Load(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.Equal(t, 120, loaded.TicksRun)
	assert.Equal(t, 13, loaded.Samples)
	assert.Equal(t, FormatFingerprint(result.Final.Fingerprint()), loaded.Fingerprint)
	assert.Equal(t, float64(result.Contacts), loaded.Metrics["contacts"])

	traj, err := st.LoadTrajectory(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tick",
		"red_block_x", "red_block_y", "red_block_vx", "red_block_vy",
		"blue_block_x", "blue_block_y", "blue_block_vx", "blue_block_vy",
	}, traj.Header)
	require.Len(t, traj.Rows, 13)
	assert.Equal(t, 120, traj.Ticks[12])

	red, _ := result.Final.Find(arena.RedBlock)
	assert.Equal(t, red.Position.X, traj.Rows[12][0], "trajectory must reload bit-exact")
	assert.Equal(t, red.Velocity.Y, traj.Column("red_block_vy")[12])
	assert.Nil(t, traj.Column("green_block_x"))

	final, err := st.LoadFinal(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Final.Fingerprint(), final.Fingerprint())
}

func TestTrajectorySnapshots(t *testing.T) {
	st := New(t.TempDir(), nil)
	result := runArena(t, 30, 10)
	meta, err := st.Save(RunInfo{Ticks: 30, SampleEvery: 10}, result)
	require.NoError(t, err)

	traj, err := st.LoadTrajectory(meta.ID)
	require.NoError(t, err)
	snaps, err := traj.Snapshots(arena.DefaultGridSize)
	require.NoError(t, err)
	require.Len(t, snaps, 4)

	for i, s := range snaps {
		assert.Equal(t, result.Samples[i].Tick, s.Tick)
		assert.Equal(t, result.Samples[i].Mobile(), s.Bodies)
	}

	bad := &Trajectory{Header: []string{"tick", "red_block_x"}, Ticks: []int{0}, Rows: [][]float64{{1}}}
	_, err = bad.Snapshots(arena.DefaultGridSize)
	assert.Error(t, err)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir(), nil)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(RunInfo{Ticks: 5, SampleEvery: 1}, runArena(t, 5, 1))
	require.NoError(t, err)
	_, err = st.Save(RunInfo{Ticks: 5, SampleEvery: 1}, runArena(t, 5, 1))
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(st.baseDir, "not-a-run"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.NotEqual(t, runs[0].ID, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope"), nil).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir(), nil)

	_, err := st.Load("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = st.LoadTrajectory("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = st.LoadFinal("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStoreFileStructure(t *testing.T) {
	st := New(t.TempDir(), nil)
	meta, err := st.Save(RunInfo{Ticks: 3, SampleEvery: 1}, runArena(t, 3, 1))
	require.NoError(t, err)

	for _, name := range []string{metadataFile, trajectoryFile, finalFile} {
		assert.FileExists(t, filepath.Join(st.Dir(meta.ID), name))
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir(), nil)
	meta, err := st.Save(RunInfo{Ticks: 20, SampleEvery: 5}, runArena(t, 20, 5))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, meta.ID))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, meta.ID, data.Run.ID)
	assert.Equal(t, []int{0, 5, 10, 15, 20}, data.Ticks)
	require.NotNil(t, data.Final)
	assert.Equal(t, 20, data.Final.Tick)

	buf.Reset()
	require.NoError(t, st.ExportCSV(&buf, meta.ID))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "tick,red_block_x"))
}

func TestExportJSONFinalState(t *testing.T) {
	st := New(t.TempDir(), nil)
	meta, err := st.Save(RunInfo{Ticks: 10, SampleEvery: 5}, runArena(t, 10, 5))
	require.NoError(t, err)
	finalPath := filepath.Join(st.Dir(meta.ID), finalFile)

	require.NoError(t, os.WriteFile(finalPath, []byte("{not json"), 0644))
	var buf bytes.Buffer
	assert.Error(t, st.ExportJSON(&buf, meta.ID), "a corrupt final state must not be skipped")

	require.NoError(t, os.Remove(finalPath))
	buf.Reset()
	require.NoError(t, st.ExportJSON(&buf, meta.ID))
	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Nil(t, data.Final)
	assert.Equal(t, []int{0, 5, 10}, data.Ticks)
}

func TestWriteJSONReportsCreateAndEncodeErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, writeJSON(path, map[string]int{"tick": 3}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tick": 3`)

	assert.Error(t, writeJSON(filepath.Join(dir, "missing", "state.json"), 1))
	assert.Error(t, writeJSON(path, math.NaN()))
}
