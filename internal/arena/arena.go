package arena

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultGridSize = 1000.0

	WallThickness   = 20
	CenterBlockSize = 50
	MobileBlockSize = 30

	// SeparationNudge is the fixed push applied along the collision normal
	// after every resolution, independent of penetration depth.
	SeparationNudge = 2.0
)

// Arena owns the full body set and advances it one tick per Step.
type Arena struct {
	gridSize float64
	bodies   []Body
	tick     int
	contacts int
	heading  func() float64
}

// Option configures how an Arena draws initial headings.
type Option func(*Arena)

// WithSource draws headings uniformly in [0, 2π) from src.
func WithSource(src rand.Source) Option {
	rng := rand.New(src)
	return func(a *Arena) {
		a.heading = func() float64 { return rng.Float64() * 2 * math.Pi }
	}
}

func WithSeed(seed int64) Option {
	return WithSource(rand.NewSource(seed))
}

// WithHeadings replaces the random draw with fixed angles (radians) for the
// red and blue blocks. Every Initialize reuses the same pair.
func WithHeadings(red, blue float64) Option {
	return func(a *Arena) {
		n := 0
		a.heading = func() float64 {
			theta := red
			if n%2 == 1 {
				theta = blue
			}
			n++
			return theta
		}
	}
}

// New returns an empty arena; call Initialize to populate it.
func New(gridSize float64, opts ...Option) (*Arena, error) {
	if !isFinite(gridSize) || gridSize <= CenterBlockSize {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidGridSize, gridSize)
	}
	a := &Arena{gridSize: gridSize}
	WithSeed(time.Now().UnixNano())(a)
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Arena) GridSize() float64 { return a.gridSize }
func (a *Arena) Tick() int          { return a.tick }
func (a *Arena) Len() int           { return len(a.bodies) }

// Contacts is the number of collision resolutions applied by the last Step.
func (a *Arena) Contacts() int { return a.contacts }

// Initialize (re)creates the fixed body set and resets the tick counter.
func (a *Arena) Initialize() {
	g := a.gridSize
	mid := math.Floor(g / 2)
	wallHalf := float64(WallThickness / 2)

	a.bodies = a.bodies[:0]
	for _, p := range []Vector{
		{mid, wallHalf},     // top
		{mid, g - wallHalf}, // bottom
		{wallHalf, mid},     // left
		{g - wallHalf, mid}, // right
	} {
		a.bodies = append(a.bodies, Body{
			Kind:     Wall,
			Position: p,
			Size:     WallThickness,
			Color:    ColorGreen,
			Static:   true,
		})
	}

	a.bodies = append(a.bodies, Body{
		Kind:     CenterBlock,
		Position: Vector{mid, mid},
		Size:     CenterBlockSize,
		Color:    ColorGreen,
		Static:   true,
	})

	// Start points sit at 10% and 90% of the default 1000-unit grid.
	red := g * 100 / DefaultGridSize
	blue := g * 900 / DefaultGridSize
	a.bodies = append(a.bodies,
		Body{
			Kind:     RedBlock,
			Position: Vector{red, red},
			Velocity: Heading(a.heading()),
			Size:     MobileBlockSize,
			Color:    ColorRed,
		},
		Body{
			Kind:     BlueBlock,
			Position: Vector{blue, blue},
			Velocity: Heading(a.heading()),
			Size:     MobileBlockSize,
			Color:    ColorBlue,
		},
	)

	a.tick = 0
	a.contacts = 0
}

// Step advances the simulation by exactly one tick.
func (a *Arena) Step() {
	a.contacts = 0
	a.integrate()
	a.resolveCollisions()
	a.enforceBoundaries()
	a.tick++
}

func (a *Arena) integrate() {
	for i := range a.bodies {
		b := &a.bodies[i]
		if b.Static {
			continue
		}
		b.Position = b.Position.Add(b.Velocity)
	}
}

// resolveCollisions walks every ordered pair without short-circuiting.
// Each resolution is written back before the next pair is tested.
func (a *Arena) resolveCollisions() {
	for i := range a.bodies {
		if a.bodies[i].Static {
			continue
		}
		for j := range a.bodies {
			if i == j {
				continue
			}
			if a.bodies[i].Overlaps(a.bodies[j]) {
				a.resolve(i, j)
			}
		}
	}
}

func (a *Arena) resolve(i, j int) {
	a.contacts++
	if a.bodies[j].Static {
		a.bounceStatic(i, j)
		return
	}
	a.bounceMobile(i, j)
}

// bounceStatic reflects mover i off the immovable body j.
func (a *Arena) bounceStatic(i, j int) {
	mover, wall := &a.bodies[i], &a.bodies[j]
	normal := mover.Position.Sub(wall.Position).Normalize()
	mover.Velocity = mover.Velocity.Reflect(normal)
	mover.Position = mover.Position.Add(normal.Scale(SeparationNudge))
}

// bounceMobile reflects both bodies across the normal pointing from j to i
// and pushes them apart along it.
func (a *Arena) bounceMobile(i, j int) {
	first, second := &a.bodies[i], &a.bodies[j]
	normal := first.Position.Sub(second.Position).Normalize()

	first.Velocity = first.Velocity.Reflect(normal)
	second.Velocity = second.Velocity.Reflect(normal)

	sep := normal.Scale(SeparationNudge)
	first.Position = first.Position.Add(sep)
	second.Position = second.Position.Sub(sep)
}

// enforceBoundaries clamps every mobile body into [half, grid-half] on each
// axis, turning the offending velocity component inward.
func (a *Arena) enforceBoundaries() {
	for i := range a.bodies {
		b := &a.bodies[i]
		if b.Static {
			continue
		}
		half := float64(b.HalfSize())
		b.Position.X, b.Velocity.X = clampAxis(b.Position.X, b.Velocity.X, half, a.gridSize)
		b.Position.Y, b.Velocity.Y = clampAxis(b.Position.Y, b.Velocity.Y, half, a.gridSize)
	}
}

func clampAxis(pos, vel, half, grid float64) (float64, float64) {
	switch {
	case pos-half < 0:
		return half, math.Abs(vel)
	case pos+half > grid:
		return grid - half, -math.Abs(vel)
	}
	return pos, vel
}

// Snapshot returns a deep copy of the current state.
func (a *Arena) Snapshot() Snapshot {
	bodies := make([]Body, len(a.bodies))
	copy(bodies, a.bodies)
	return Snapshot{
		Tick:     a.tick,
		GridSize: a.gridSize,
		Bodies:   bodies,
	}
}

// Restore replaces the body set and tick with the contents of s.
func (a *Arena) Restore(s Snapshot) error {
	if s.GridSize != a.gridSize {
		return fmt.Errorf("%w: snapshot grid %v, arena grid %v", ErrInvalidGridSize, s.GridSize, a.gridSize)
	}
	if s.Tick < 0 {
		return fmt.Errorf("%w: negative tick %d", ErrInvalidBody, s.Tick)
	}
	for _, b := range s.Bodies {
		if err := b.validate(a.gridSize); err != nil {
			return err
		}
	}
	a.bodies = make([]Body, len(s.Bodies))
	copy(a.bodies, s.Bodies)
	a.tick = s.Tick
	a.contacts = 0
	return nil
}
