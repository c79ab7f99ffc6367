package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/boxsim/internal/experiment"
)

// GridSearch evaluates every (red, blue) heading pair and keeps the one with
// the best metric value.
type GridSearch struct {
	reds  []float64
	blues []float64
}

func NewGridSearch(reds, blues []float64) *GridSearch {
	return &GridSearch{reds: reds, blues: blues}
}

// HeadingRange returns n headings evenly spaced over [0, 2π).
func HeadingRange(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 2 * math.Pi * float64(i) / float64(n)
	}
	return out
}

type Candidate struct {
	Red   float64
	Blue  float64
	Value float64
}

// Search runs base once per heading pair. With maximize unset the lowest
// metric value wins; ties keep the first pair in red-major order.
func (g *GridSearch) Search(
	ctx context.Context,
	base experiment.Config,
	registry *experiment.Registry,
	metricName string,
	maximize bool,
) (Candidate, error) {
	if len(g.reds) == 0 || len(g.blues) == 0 {
		return Candidate{}, errors.New("empty search grid")
	}
	if _, err := registry.GetMetric(metricName); err != nil {
		return Candidate{}, err
	}

	best := Candidate{Value: math.Inf(1)}
	if maximize {
		best.Value = math.Inf(-1)
	}

	for _, red := range g.reds {
		for _, blue := range g.blues {
			if err := ctx.Err(); err != nil {
				return best, err
			}

			cfg := base
			r, b := red, blue
			cfg.RedHeading, cfg.BlueHeading = &r, &b
			cfg.Metrics = []string{metricName}

			exp := experiment.New(cfg, nil)
			if err := exp.Setup(registry); err != nil {
				return best, err
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return best, fmt.Errorf("red %.4f blue %.4f: %w", red, blue, err)
			}

			val := result.Metrics[metricName]
			if (maximize && val > best.Value) || (!maximize && val < best.Value) {
				best = Candidate{Red: red, Blue: blue, Value: val}
			}
		}
	}
	return best, nil
}
