package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/sim"
)

// SpeedDrift tracks the largest deviation of any mobile body's speed from
// its speed at the first observation. Reflections preserve speed, so the
// value should stay at floating-point noise.
type SpeedDrift struct {
	name     string
	initial  []float64
	maxDrift float64
}

func NewSpeedDrift() *SpeedDrift {
	return &SpeedDrift{name: "speed_drift"}
}

func (s *SpeedDrift) Name() string { return s.name }

func (s *SpeedDrift) Observe(f sim.Frame) {
	mobile := f.Snapshot.Mobile()
	if s.initial == nil {
		s.initial = make([]float64, len(mobile))
		for i, b := range mobile {
			s.initial[i] = b.Speed()
		}
		return
	}
	for i, b := range mobile {
		if i >= len(s.initial) {
			break
		}
		s.maxDrift = math.Max(s.maxDrift, math.Abs(b.Speed()-s.initial[i]))
	}
}

func (s *SpeedDrift) Value() float64 { return s.maxDrift }

func (s *SpeedDrift) Reset() {
	s.initial = nil
	s.maxDrift = 0
}
