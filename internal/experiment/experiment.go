package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/sim"
)

type Config struct {
	GridSize    float64
	Ticks       int
	SampleEvery int
	Seed        int64
	// RedHeading and BlueHeading fix the initial angles (radians). Both
	// must be set for either to take effect; otherwise Seed drives the draw.
	RedHeading  *float64
	BlueHeading *float64
	Metrics     []string
}

// FixedHeadings reports whether the run bypasses the random heading draw.
func (c Config) FixedHeadings() bool {
	return c.RedHeading != nil && c.BlueHeading != nil
}

// ArenaOptions returns the options that reproduce this configuration.
func (c Config) ArenaOptions() []arena.Option {
	if c.FixedHeadings() {
		return []arena.Option{arena.WithHeadings(*c.RedHeading, *c.BlueHeading)}
	}
	return []arena.Option{arena.WithSeed(c.Seed)}
}

type Experiment struct {
	cfg       Config
	arena     *arena.Arena
	simulator *sim.Simulator
	log       *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Experiment {
	return &Experiment{cfg: cfg, log: log}
}

// Setup builds and initializes the arena and attaches the configured metrics.
func (e *Experiment) Setup(registry *Registry) error {
	a, err := arena.New(e.cfg.GridSize, e.cfg.ArenaOptions()...)
	if err != nil {
		return err
	}
	a.Initialize()

	ms, err := registry.Metrics(e.cfg.Metrics)
	if err != nil {
		return err
	}

	e.arena = a
	e.simulator = sim.New(a, e.log)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.Config{
		Ticks:       e.cfg.Ticks,
		SampleEvery: e.cfg.SampleEvery,
	})
}

func (e *Experiment) Config() Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Factory returns a sim.Factory that reuses this configuration with a
// different seed per run. Fixed headings still win over the seed.
func Factory(cfg Config, registry *Registry, log *zap.Logger) sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		c := cfg
		c.Seed = seed
		e := New(c, log)
		if err := e.Setup(registry); err != nil {
			return nil, err
		}
		return e.simulator, nil
	}
}
