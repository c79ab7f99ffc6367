package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/experiment"
	"github.com/san-kum/boxsim/internal/logging"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/storage"
)

// Scenario is a named, ordered list of arena runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Name        string               `yaml:"name"`
	Preset      string               `yaml:"preset"`
	GridSize    float64              `yaml:"grid_size"`
	Ticks       int                  `yaml:"ticks"`
	SampleEvery int                  `yaml:"sample_every"`
	Seed        int64                `yaml:"seed"`
	Headings    config.HeadingConfig `yaml:"headings"`
	Metrics     []string             `yaml:"metrics"`
	SaveAs      string               `yaml:"save_as"`
}

// StepResult pairs a finished step with the id it was stored under, if any.
type StepResult struct {
	Step   ScenarioStep
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, errors.New("scenario has no steps")
	}
	for i := range scenario.Steps {
		if _, err := scenario.Steps[i].Config(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &scenario, nil
}

// Config resolves the step against its preset (or the defaults). Fields set
// on the step win.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.GridSize != 0 {
		cfg.GridSize = s.GridSize
	}
	if s.Ticks != 0 {
		cfg.Ticks = s.Ticks
	}
	if s.SampleEvery != 0 {
		cfg.SampleEvery = s.SampleEvery
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Headings.Red != nil || s.Headings.Blue != nil {
		cfg.Headings = s.Headings
	}
	if len(s.Metrics) > 0 {
		cfg.Metrics = s.Metrics
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExperimentConfig maps a validated config onto an experiment.
func ExperimentConfig(cfg *config.Config) experiment.Config {
	return experiment.Config{
		GridSize:    cfg.GridSize,
		Ticks:       cfg.Ticks,
		SampleEvery: cfg.SampleEvery,
		Seed:        cfg.Seed,
		RedHeading:  cfg.Headings.Red,
		BlueHeading: cfg.Headings.Blue,
		Metrics:     cfg.Metrics,
	}
}

// RunInfo describes an experiment for the run store.
func RunInfo(name string, cfg experiment.Config) storage.RunInfo {
	return storage.RunInfo{
		Name:        name,
		GridSize:    cfg.GridSize,
		Ticks:       cfg.Ticks,
		SampleEvery: cfg.SampleEvery,
		Seed:        cfg.Seed,
		RedHeading:  cfg.RedHeading,
		BlueHeading: cfg.BlueHeading,
	}
}

// Runner executes scenarios, storing each step when a store is set.
type Runner struct {
	registry *experiment.Registry
	store    *storage.Store
	log      *zap.Logger
}

func NewRunner(registry *experiment.Registry, store *storage.Store, log *zap.Logger) *Runner {
	return &Runner{registry: registry, store: store, log: logging.OrNop(log)}
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the steps completed so far.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		expCfg := ExperimentConfig(cfg)

		r.log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("name", step.Name),
		)

		exp := experiment.New(expCfg, r.log)
		if err := exp.Setup(r.registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if r.store != nil {
			name := step.SaveAs
			if name == "" {
				name = step.Name
			}
			meta, err := r.store.Save(RunInfo(name, expCfg), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = meta.ID
		}
		results = append(results, sr)
	}

	return results, nil
}
