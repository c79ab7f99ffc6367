package analysis

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/boxsim/internal/arena"
)

// DivergenceConfig describes a pair of runs whose red headings differ by
// Perturbation radians.
type DivergenceConfig struct {
	GridSize     float64
	Ticks        int
	Red          float64
	Blue         float64
	Perturbation float64
}

type DivergenceResult struct {
	// Separation[t] is the phase-space distance between the two arenas'
	// mobile bodies after t ticks.
	Separation []float64
	// GrowthRate is the least-squares slope of ln(sep/sep0) per tick over
	// the ticks before the separation saturates.
	GrowthRate float64
	// Saturated is the first tick at which the separation reached a tenth
	// of the grid, or -1.
	Saturated int
}

func (c *DivergenceConfig) defaults() {
	if c.GridSize == 0 {
		c.GridSize = arena.DefaultGridSize
	}
	if c.Perturbation == 0 {
		c.Perturbation = 1e-9
	}
}

// Divergence steps a reference and a perturbed arena in lockstep.
func Divergence(ctx context.Context, cfg DivergenceConfig) (*DivergenceResult, error) {
	cfg.defaults()
	if cfg.Ticks <= 0 {
		return nil, errors.New("ticks must be positive")
	}
	if cfg.Perturbation < 0 || !isFinite(cfg.Perturbation) {
		return nil, errors.New("perturbation must be a positive finite angle")
	}

	ref, err := arena.New(cfg.GridSize, arena.WithHeadings(cfg.Red, cfg.Blue))
	if err != nil {
		return nil, err
	}
	pert, err := arena.New(cfg.GridSize, arena.WithHeadings(cfg.Red+cfg.Perturbation, cfg.Blue))
	if err != nil {
		return nil, err
	}
	ref.Initialize()
	pert.Initialize()

	res := &DivergenceResult{
		Separation: make([]float64, 0, cfg.Ticks+1),
		Saturated:  -1,
	}
	res.Separation = append(res.Separation, separation(ref.Snapshot(), pert.Snapshot()))

	limit := cfg.GridSize / 10
	for t := 1; t <= cfg.Ticks; t++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ref.Step()
		pert.Step()
		sep := separation(ref.Snapshot(), pert.Snapshot())
		res.Separation = append(res.Separation, sep)
		if res.Saturated < 0 && sep >= limit {
			res.Saturated = t
		}
	}

	end := len(res.Separation)
	if res.Saturated >= 0 {
		end = res.Saturated
	}
	res.GrowthRate = growthRate(res.Separation[:end])
	return res, nil
}

func separation(a, b arena.Snapshot) float64 {
	ma, mb := a.Mobile(), b.Mobile()
	n := len(ma)
	if len(mb) < n {
		n = len(mb)
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		dp := ma[i].Position.Sub(mb[i].Position)
		dv := ma[i].Velocity.Sub(mb[i].Velocity)
		sum += dp.Dot(dp) + dv.Dot(dv)
	}
	return math.Sqrt(sum)
}

// growthRate fits ln(sep[t]/sep[0]) = rate*t through the origin.
func growthRate(sep []float64) float64 {
	if len(sep) < 2 || sep[0] <= 0 {
		return 0
	}

	num, den := 0.0, 0.0
	for t := 1; t < len(sep); t++ {
		if sep[t] <= 0 {
			continue
		}
		ft := float64(t)
		num += ft * math.Log(sep[t]/sep[0])
		den += ft * ft
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
