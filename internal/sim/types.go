package sim

import "github.com/san-kum/boxsim/internal/arena"

// Frame is what the driver observes after each tick.
type Frame struct {
	Snapshot arena.Snapshot
	Contacts int
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnTick(f Frame) { fn(f) }

type Config struct {
	Ticks       int
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Ticks:       3600,
		SampleEvery: 1,
	}
}

type Result struct {
	Initial  arena.Snapshot
	Samples  []arena.Snapshot
	Final    arena.Snapshot
	Metrics  map[string]float64
	TicksRun int
	Contacts int
}
