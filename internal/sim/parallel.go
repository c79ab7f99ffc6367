package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/boxsim/internal/logging"
)

// Factory builds an independent simulator for one seed.
type Factory func(seed int64) (*Simulator, error)

// Ensemble runs one simulator per seed in [seedStart, seedStart+numRuns)
// with at most workers running at once.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
	workers   int
	log       *zap.Logger
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64, workers int, log *zap.Logger) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{
		factory:   factory,
		numRuns:   numRuns,
		seedStart: seedStart,
		workers:   workers,
		log:       logging.OrNop(log),
	}
}

// Seed returns the seed used for run idx.
func (e *Ensemble) Seed(idx int) int64 { return e.seedStart + int64(idx) }

// Run returns results in seed order. The first failing run cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			seed := e.Seed(idx)
			s, err := e.factory(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[idx] = res
			e.log.Debug("ensemble run done", zap.Int64("seed", seed), zap.Int("contacts", res.Contacts))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
