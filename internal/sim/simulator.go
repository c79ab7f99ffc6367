package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/logging"
)

// Simulator drives an arena for a fixed number of ticks. It owns the arena
// for the duration of Run.
type Simulator struct {
	arena     *arena.Arena
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

func New(a *arena.Arena, log *zap.Logger) *Simulator {
	return &Simulator{
		arena:     a,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logging.OrNop(log),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Arena() *arena.Arena    { return s.arena }

// Run steps the arena cfg.Ticks times from its current state. The context
// is checked between ticks; on cancellation the partial result is returned
// together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Initial: s.arena.Snapshot(),
		Samples: make([]arena.Snapshot, 0, cfg.Ticks/cfg.SampleEvery+1),
		Metrics: make(map[string]float64),
	}
	result.Samples = append(result.Samples, result.Initial)
	result.Final = result.Initial

	// Metrics see the starting state as their first frame.
	start := Frame{Snapshot: result.Initial}
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(start)
	}

	s.log.Debug("run started",
		zap.Int("ticks", cfg.Ticks),
		zap.Int("sample_every", cfg.SampleEvery),
		zap.Int("start_tick", result.Initial.Tick),
	)

	var runErr error
	for i := 0; i < cfg.Ticks; i++ {
		if runErr = ctx.Err(); runErr != nil {
			s.log.Warn("run canceled", zap.Int("ticks_run", result.TicksRun), zap.Error(runErr))
			break
		}

		s.arena.Step()
		frame := Frame{Snapshot: s.arena.Snapshot(), Contacts: s.arena.Contacts()}

		for _, m := range s.metrics {
			m.Observe(frame)
		}
		for _, obs := range s.observers {
			obs.OnTick(frame)
		}

		result.TicksRun++
		result.Contacts += frame.Contacts
		result.Final = frame.Snapshot
		if result.TicksRun%cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, frame.Snapshot)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug("run finished",
		zap.Int("ticks_run", result.TicksRun),
		zap.Int("contacts", result.Contacts),
		zap.Uint64("fingerprint", result.Final.Fingerprint()),
	)
	return result, runErr
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.SampleEvery < 1 {
		return fmt.Errorf("sample interval must be at least 1, got %d", cfg.SampleEvery)
	}
	return nil
}
