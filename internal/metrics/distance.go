package metrics

import (
	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/sim"
)

// Distance sums the path length of all mobile bodies, including collision
// nudges and boundary corrections.
type Distance struct {
	last  []arena.Vector
	total float64
}

func NewDistance() *Distance { return &Distance{} }

func (d *Distance) Name() string { return "distance" }

func (d *Distance) Observe(f sim.Frame) {
	mobile := f.Snapshot.Mobile()
	if d.last != nil && len(d.last) == len(mobile) {
		for i, b := range mobile {
			d.total += b.Position.Distance(d.last[i])
		}
	}
	if len(d.last) != len(mobile) {
		d.last = make([]arena.Vector, len(mobile))
	}
	for i, b := range mobile {
		d.last[i] = b.Position
	}
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.last = nil
	d.total = 0
}
