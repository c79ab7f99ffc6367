package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/boxsim/internal/arena"
)

type ExportData struct {
	Run    RunMetadata     `json:"run"`
	Header []string        `json:"header"`
	Ticks  []int           `json:"ticks"`
	Rows   [][]float64     `json:"rows"`
	Final  *arena.Snapshot `json:"final,omitempty"`
}

// ExportJSON writes a complete run (metadata, trajectory, final state) to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	traj, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:    *meta,
		Header: traj.Header,
		Ticks:  traj.Ticks,
		Rows:   traj.Rows,
	}
	// Runs stored without a final state still export.
	final, err := s.LoadFinal(runID)
	switch {
	case err == nil:
		data.Final = &final
	case !errors.Is(err, ErrRunNotFound):
		return fmt.Errorf("load final state: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies the stored trajectory to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := openRunFile(s, runID, trajectoryFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
