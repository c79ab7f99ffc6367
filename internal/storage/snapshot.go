package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/san-kum/boxsim/internal/arena"
)

// SnapshotFileName is the name used for ad-hoc state saves.
func SnapshotFileName(tick int) string {
	return fmt.Sprintf("simulation_state_%d.json", tick)
}

// SaveSnapshot writes s as indented JSON.
func SaveSnapshot(path string, s arena.Snapshot) error {
	return writeJSON(path, s)
}

// legacySnapshot is the older state layout: time_step/objects/type.
type legacySnapshot struct {
	TimeStep *int         `json:"time_step"`
	GridSize float64      `json:"grid_size"`
	Objects  []legacyBody `json:"objects"`
}

type legacyBody struct {
	Type     arena.Kind   `json:"type"`
	Position arena.Vector `json:"position"`
	Velocity arena.Vector `json:"velocity"`
	Size     int          `json:"size"`
	Color    arena.Color  `json:"color"`
	Static   bool         `json:"is_static"`
}

// DecodeSnapshot parses either snapshot layout.
func DecodeSnapshot(data []byte) (arena.Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return arena.Snapshot{}, err
	}

	if _, ok := probe["objects"]; ok {
		var legacy legacySnapshot
		if err := json.Unmarshal(data, &legacy); err != nil {
			return arena.Snapshot{}, err
		}
		s := arena.Snapshot{GridSize: legacy.GridSize, Bodies: make([]arena.Body, len(legacy.Objects))}
		if legacy.TimeStep != nil {
			s.Tick = *legacy.TimeStep
		}
		for i, o := range legacy.Objects {
			s.Bodies[i] = arena.Body{
				Kind:     o.Type,
				Position: o.Position,
				Velocity: o.Velocity,
				Size:     o.Size,
				Color:    o.Color,
				Static:   o.Static,
			}
		}
		return s, nil
	}

	var s arena.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return arena.Snapshot{}, err
	}
	return s, nil
}

func LoadSnapshot(path string) (arena.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return arena.Snapshot{}, err
	}
	return DecodeSnapshot(data)
}
