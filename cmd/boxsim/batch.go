package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/experiment"
	"github.com/san-kum/boxsim/internal/optim"
)

func newBatchCmd() *cobra.Command {
	var runs, workers int
	var seedStart int64

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "run the same configuration over consecutive seeds in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			runner := automation.NewRunner(experiment.NewRegistry(), nil, logger)
			results, err := runner.RunSeedSweep(ctx, automation.SeedSweep{
				Base:      automation.ExperimentConfig(cfg),
				Runs:      runs,
				SeedStart: seedStart,
				Workers:   workers,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SEED\tCONTACTS\tDISTANCE\tFINGERPRINT")
			for _, r := range results {
				fmt.Fprintf(w, "%d\t%d\t%.1f\t%s\n", r.Seed, r.Contacts, r.Metrics["distance"], r.Fingerprint)
			}
			mean, lo, hi := automation.SweepStats(results)
			fmt.Fprintf(w, "\ncontacts\tmean %.2f\tmin %d\tmax %d\n", mean, lo, hi)
			return w.Flush()
		},
	}
	addArenaFlags(cmd)
	cmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	cmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first seed")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "parallel workers")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var sweep automation.HeadingSweep

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the red heading with the blue heading fixed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			sweep.Base = automation.ExperimentConfig(cfg)

			runner := automation.NewRunner(experiment.NewRegistry(), nil, logger)
			results, err := runner.RunHeadingSweep(cmd.Context(), sweep)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RED\tCONTACTS\tFINGERPRINT")
			for _, r := range results {
				fmt.Fprintf(w, "%.4f\t%d\t%s\n", r.RedHeading, r.Contacts, r.Fingerprint)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&gridSize, "grid", config.DefaultGridSize, "arena side length")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "keep every n-th tick")
	cmd.Flags().Float64Var(&sweep.Min, "min", 0, "first red heading")
	cmd.Flags().Float64Var(&sweep.Max, "max", math.Pi/2, "last red heading")
	cmd.Flags().Float64Var(&sweep.Blue, "blue-heading", math.Pi, "fixed blue heading")
	cmd.Flags().IntVar(&sweep.Steps, "steps", 16, "number of headings")
	cmd.Flags().IntVar(&sweep.Workers, "workers", runtime.NumCPU(), "parallel workers")
	return cmd
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario and store every step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			logger.Info("running scenario", zap.String("name", sc.Name), zap.Int("steps", len(sc.Steps)))
			results, err := automation.NewRunner(experiment.NewRegistry(), st, logger).RunScenario(ctx, sc)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tNAME\tRUN ID\tTICKS\tCONTACTS")
			for i, r := range results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", i+1, r.Step.Name, r.RunID, r.Result.TicksRun, r.Result.Contacts)
			}
			if flushErr := w.Flush(); flushErr != nil && err == nil {
				err = flushErr
			}
			return err
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRID\tTICKS\tSAMPLE\tHEADINGS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				headings := "random"
				if p.Headings.Red != nil && p.Headings.Blue != nil {
					headings = fmt.Sprintf("%.3f, %.3f", *p.Headings.Red, *p.Headings.Blue)
				}
				fmt.Fprintf(w, "%s\t%.0f\t%d\t%d\t%s\n", name, p.GridSize, p.Ticks, p.SampleEvery, headings)
			}
			return w.Flush()
		},
	}
}

func newSearchCmd() *cobra.Command {
	var metric string
	var steps int
	var maximize bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "grid search heading pairs for the best metric value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			headings := optim.HeadingRange(steps)
			best, err := optim.NewGridSearch(headings, headings).Search(
				cmd.Context(), automation.ExperimentConfig(cfg), experiment.NewRegistry(), metric, maximize)
			if err != nil {
				return err
			}

			logger.Info("search done", zap.Int("pairs", steps*steps), zap.String("metric", metric))
			fmt.Printf("best %s: %.6g\n", metric, best.Value)
			fmt.Printf("red: %.6f rad\n", best.Red)
			fmt.Printf("blue: %.6f rad\n", best.Blue)
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&gridSize, "grid", config.DefaultGridSize, "arena side length")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().StringVar(&metric, "metric", "contacts", "metric to optimize")
	cmd.Flags().IntVar(&steps, "steps", 8, "headings per block")
	cmd.Flags().BoolVar(&maximize, "max", false, "maximize instead of minimize")
	return cmd
}
