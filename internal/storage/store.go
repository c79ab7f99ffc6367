package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/logging"
	"github.com/san-kum/boxsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	finalFile      = "final.json"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	log     *zap.Logger
}

func New(baseDir string, log *zap.Logger) *Store {
	return &Store{baseDir: baseDir, log: logging.OrNop(log)}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Name        string   `json:"name,omitempty"`
	GridSize    float64  `json:"grid_size"`
	Ticks       int      `json:"ticks"`
	SampleEvery int      `json:"sample_every"`
	Seed        int64    `json:"seed"`
	RedHeading  *float64 `json:"red_heading,omitempty"`
	BlueHeading *float64 `json:"blue_heading,omitempty"`
}

type RunMetadata struct {
	RunInfo
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	TicksRun    int                `json:"ticks_run"`
	Samples     int                `json:"samples"`
	Contacts    int                `json:"contacts"`
	Fingerprint string             `json:"fingerprint"`
	Metrics     map[string]float64 `json:"metrics"`
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("%d_%s", now.Unix(), uuid.NewString()[:8])
}

// Save writes metadata, the sampled trajectory and the final snapshot into
// a fresh run directory and returns its id.
func (s *Store) Save(info RunInfo, result *sim.Result) (*RunMetadata, error) {
	now := time.Now()
	meta := &RunMetadata{
		RunInfo:     info,
		ID:          newRunID(now),
		Timestamp:   now,
		TicksRun:    result.TicksRun,
		Samples:     len(result.Samples),
		Contacts:    result.Contacts,
		Fingerprint: FormatFingerprint(result.Final.Fingerprint()),
		Metrics:     result.Metrics,
	}

	runDir := s.Dir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result.Samples); err != nil {
		return nil, fmt.Errorf("write trajectory: %w", err)
	}
	if err := SaveSnapshot(filepath.Join(runDir, finalFile), result.Final); err != nil {
		return nil, fmt.Errorf("write final snapshot: %w", err)
	}

	s.log.Info("run saved",
		zap.String("id", meta.ID),
		zap.Int("samples", meta.Samples),
		zap.String("fingerprint", meta.Fingerprint),
	)
	return meta, nil
}

func FormatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

// TrajectoryHeader returns the CSV columns for the given sample: tick, then
// x, y, vx, vy for every mobile body in arena order.
func TrajectoryHeader(s arena.Snapshot) []string {
	header := []string{"tick"}
	for _, b := range s.Mobile() {
		k := b.Kind.String()
		header = append(header, k+"_x", k+"_y", k+"_vx", k+"_vy")
	}
	return header
}

func writeTrajectory(path string, samples []arena.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(samples) > 0 {
		if err := w.Write(TrajectoryHeader(samples[0])); err != nil {
			return err
		}
	}
	for _, snap := range samples {
		row := []string{strconv.Itoa(snap.Tick)}
		for _, b := range snap.Mobile() {
			row = append(row,
				formatFloat(b.Position.X),
				formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X),
				formatFloat(b.Velocity.Y),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// formatFloat keeps the shortest exact representation so a reloaded
// trajectory is bit-identical.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug("skipping run directory", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFinal returns the last snapshot of a run.
func (s *Store) LoadFinal(runID string) (arena.Snapshot, error) {
	snap, err := LoadSnapshot(filepath.Join(s.Dir(runID), finalFile))
	if err != nil && os.IsNotExist(err) {
		return snap, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return snap, err
}

// Trajectory is the tabular form of a run's samples.
type Trajectory struct {
	Header []string
	Ticks  []int
	Rows   [][]float64
}

// Column returns the values of the named column, or nil.
func (t *Trajectory) Column(name string) []float64 {
	if len(t.Header) == 0 {
		return nil
	}
	idx := -1
	for i, h := range t.Header[1:] {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Snapshots rebuilds mobile-only snapshots from the table. Columns are
// grouped by their <kind>_ prefix in header order.
func (t *Trajectory) Snapshots(gridSize float64) ([]arena.Snapshot, error) {
	if len(t.Header) == 0 {
		return nil, nil
	}
	cols := t.Header[1:]
	if len(cols)%4 != 0 {
		return nil, fmt.Errorf("trajectory has %d value columns, want a multiple of 4", len(cols))
	}

	kinds := make([]arena.Kind, len(cols)/4)
	for i := range kinds {
		name := strings.TrimSuffix(cols[i*4], "_x")
		k, err := arena.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds[i] = k
	}

	out := make([]arena.Snapshot, len(t.Rows))
	for r, row := range t.Rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("tick %d: %d values, want %d", t.Ticks[r], len(row), len(cols))
		}
		bodies := make([]arena.Body, len(kinds))
		for i, k := range kinds {
			v := row[i*4 : i*4+4]
			bodies[i] = arena.Body{
				Kind:     k,
				Position: arena.Vector{X: v[0], Y: v[1]},
				Velocity: arena.Vector{X: v[2], Y: v[3]},
				Size:     arena.MobileBlockSize,
				Color:    k.Color(),
			}
		}
		out[r] = arena.Snapshot{Tick: t.Ticks[r], GridSize: gridSize, Bodies: bodies}
	}
	return out, nil
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := openRunFile(s, runID, trajectoryFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	if len(records) == 0 {
		return traj, nil
	}
	traj.Header = records[0]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		tick, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("bad tick %q: %w", record[0], err)
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("tick %d: %w", tick, err)
			}
			row = append(row, val)
		}
		traj.Ticks = append(traj.Ticks, tick)
		traj.Rows = append(traj.Rows, row)
	}

	return traj, nil
}

func openRunFile(s *Store, runID, name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return f, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
