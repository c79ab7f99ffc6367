package metrics

import "github.com/san-kum/boxsim/internal/sim"

// Containment is the fraction of frames in which every mobile body lies
// within [half, grid-half] on both axes.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	g := f.Snapshot.GridSize
	for _, b := range f.Snapshot.Mobile() {
		half := float64(b.HalfSize())
		if b.Position.X < half || b.Position.X > g-half ||
			b.Position.Y < half || b.Position.Y > g-half {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
