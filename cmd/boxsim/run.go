package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/experiment"
	"github.com/san-kum/boxsim/internal/storage"
	"github.com/san-kum/boxsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	expCfg := automation.ExperimentConfig(cfg)
	exp := experiment.New(expCfg, logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running simulation",
		zap.Float64("grid_size", expCfg.GridSize),
		zap.Int("ticks", expCfg.Ticks),
		zap.Int64("seed", expCfg.Seed),
	)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		if result == nil || result.TicksRun == 0 {
			return err
		}
		logger.Warn("storing partial run", zap.Int("ticks_run", result.TicksRun), zap.Error(err))
	}
	elapsed := time.Since(start)

	meta, err := st.Save(automation.RunInfo("", expCfg), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", meta.ID)
	fmt.Printf("ticks: %d\n", result.TicksRun)
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Printf("fingerprint: %s\n", meta.Fingerprint)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newArena(cfg)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI; keep the logger quiet.
	return viz.Run(a, viz.Options{
		FPS:     cfg.Display.FPS,
		SaveDir: cfg.Display.SaveDir,
		Theme:   themeName,
	})
}

func newSnapshotCmd() *cobra.Command {
	var resume int
	var outDir string

	cmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "inspect a saved arena state, optionally resuming it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := storage.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			printSnapshot(snap)

			if resume <= 0 {
				return nil
			}

			a, err := arenaFromSnapshot(snap)
			if err != nil {
				return err
			}
			for i := 0; i < resume; i++ {
				a.Step()
			}

			next := a.Snapshot()
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}
			path := filepath.Join(outDir, storage.SnapshotFileName(next.Tick))
			if err := storage.SaveSnapshot(path, next); err != nil {
				return err
			}
			logger.Info("snapshot resumed", zap.Int("ticks", resume), zap.String("path", path))
			fmt.Printf("\nresumed %d ticks -> %s\n", resume, path)
			printSnapshot(next)
			return nil
		},
	}
	cmd.Flags().IntVar(&resume, "resume", 0, "ticks to advance from the saved state")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory for the resumed state")
	return cmd
}
