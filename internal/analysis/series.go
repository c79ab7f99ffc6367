package analysis

import (
	"fmt"

	"github.com/san-kum/boxsim/internal/arena"
)

// Axis selects one scalar out of a body's state.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisVX
	AxisVY
	AxisSpeed
)

var axisNames = map[string]Axis{
	"x":     AxisX,
	"y":     AxisY,
	"vx":    AxisVX,
	"vy":    AxisVY,
	"speed": AxisSpeed,
}

func ParseAxis(s string) (Axis, error) {
	a, ok := axisNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown axis %q (want x, y, vx, vy or speed)", s)
	}
	return a, nil
}

func (a Axis) String() string {
	for name, v := range axisNames {
		if v == a {
			return name
		}
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

func (a Axis) of(b arena.Body) float64 {
	switch a {
	case AxisX:
		return b.Position.X
	case AxisY:
		return b.Position.Y
	case AxisVX:
		return b.Velocity.X
	case AxisVY:
		return b.Velocity.Y
	default:
		return b.Speed()
	}
}

// Series extracts one coordinate of the first body of the given kind from
// every sample. Samples without such a body are skipped.
func Series(samples []arena.Snapshot, kind arena.Kind, axis Axis) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		b, ok := s.Find(kind)
		if !ok {
			continue
		}
		out = append(out, axis.of(b))
	}
	return out
}
