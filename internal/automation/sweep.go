package automation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/experiment"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/storage"
)

// SeedSweep runs the same experiment for Runs consecutive seeds.
type SeedSweep struct {
	Base      experiment.Config
	Runs      int
	SeedStart int64
	Workers   int
}

// HeadingSweep varies the red heading linearly over [Min, Max] with the
// blue heading fixed.
type HeadingSweep struct {
	Base     experiment.Config
	Min, Max float64
	Blue     float64
	Steps    int
	Workers  int
}

// SweepResult summarizes one run. Seed is set by seed sweeps, RedHeading by
// heading sweeps.
type SweepResult struct {
	Seed        int64
	RedHeading  float64
	Contacts    int
	Fingerprint string
	Metrics     map[string]float64
}

func (r *Runner) RunSeedSweep(ctx context.Context, sweep SeedSweep) ([]SweepResult, error) {
	if sweep.Base.FixedHeadings() {
		return nil, errors.New("seed sweep needs random headings")
	}

	factory := experiment.Factory(sweep.Base, r.registry, r.log)
	ens := sim.NewEnsemble(factory, sweep.Runs, sweep.SeedStart, sweep.Workers, r.log)
	results, err := ens.Run(ctx, simConfig(sweep.Base))
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, res := range results {
		out[i] = summarize(res)
		out[i].Seed = ens.Seed(i)
	}
	r.log.Info("seed sweep done", zap.Int("runs", len(out)))
	return out, nil
}

// HeadingAt returns the red heading of sweep step i.
func (h HeadingSweep) HeadingAt(i int) float64 {
	if h.Steps <= 1 {
		return h.Min
	}
	return h.Min + float64(i)*(h.Max-h.Min)/float64(h.Steps-1)
}

func (r *Runner) RunHeadingSweep(ctx context.Context, sweep HeadingSweep) ([]SweepResult, error) {
	factory := func(idx int64) (*sim.Simulator, error) {
		cfg := sweep.Base
		red, blue := sweep.HeadingAt(int(idx)), sweep.Blue
		cfg.RedHeading, cfg.BlueHeading = &red, &blue
		exp := experiment.New(cfg, r.log)
		if err := exp.Setup(r.registry); err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}

	ens := sim.NewEnsemble(factory, sweep.Steps, 0, sweep.Workers, r.log)
	results, err := ens.Run(ctx, simConfig(sweep.Base))
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, res := range results {
		out[i] = summarize(res)
		out[i].RedHeading = sweep.HeadingAt(i)
	}
	return out, nil
}

func simConfig(c experiment.Config) sim.Config {
	return sim.Config{Ticks: c.Ticks, SampleEvery: c.SampleEvery}
}

func summarize(res *sim.Result) SweepResult {
	return SweepResult{
		Contacts:    res.Contacts,
		Fingerprint: storage.FormatFingerprint(res.Final.Fingerprint()),
		Metrics:     res.Metrics,
	}
}

// SweepStats returns mean, min and max contacts over a sweep.
func SweepStats(results []SweepResult) (mean float64, lo, hi int) {
	if len(results) == 0 {
		return 0, 0, 0
	}
	lo, hi = results[0].Contacts, results[0].Contacts
	sum := 0
	for _, r := range results {
		sum += r.Contacts
		lo = min(lo, r.Contacts)
		hi = max(hi, r.Contacts)
	}
	return float64(sum) / float64(len(results)), lo, hi
}
