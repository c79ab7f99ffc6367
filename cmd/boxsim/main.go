package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/logging"
	"github.com/san-kum/boxsim/internal/storage"
	"github.com/san-kum/boxsim/internal/viz"
)

var (
	dataDir   string
	logLevel  string
	logFormat string
	logger    = zap.NewNop()

	configFile  string
	preset      string
	gridSize    float64
	ticks       int
	sampleEvery int
	seed        int64
	redHeading  float64
	blueHeading float64
	metricNames []string
	frameRate   int
	saveDir     string
	themeName   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "boxsim",
		Short:         "box arena simulator and trajectory generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = log
			return nil
		},
		// Default to the live view when no command is given.
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".boxsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (console, json)")
	addArenaFlags(rootCmd)
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addArenaFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default: all)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the arena with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addArenaFlags(liveCmd)
	addLiveFlags(liveCmd)

	rootCmd.AddCommand(
		runCmd,
		liveCmd,
		newListCmd(),
		newPlotCmd(),
		newAnalyzeCmd(),
		newPhaseCmd(),
		newDivergeCmd(),
		newExportJSONCmd(),
		newExportCSVCmd(),
		newExportSVGCmd(),
		newSnapshotCmd(),
		newBatchCmd(),
		newSweepCmd(),
		newSearchCmd(),
		newScenarioCmd(),
		newPresetsCmd(),
	)

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addArenaFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&gridSize, "grid", config.DefaultGridSize, "arena side length")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	f.IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "keep every n-th tick")
	f.Int64Var(&seed, "seed", 0, "random seed for headings (0: time based)")
	f.Float64Var(&redHeading, "red", 0, "fixed red heading in radians (needs --blue)")
	f.Float64Var(&blueHeading, "blue", 0, "fixed blue heading in radians (needs --red)")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().StringVar(&saveDir, "save-dir", ".", "directory for saved snapshots and recordings")
	cmd.Flags().StringVar(&themeName, "theme", viz.ThemeNames()[0], "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("grid") {
		cfg.GridSize = gridSize
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("red") || flags.Changed("blue") {
		if !flags.Changed("red") || !flags.Changed("blue") {
			return nil, fmt.Errorf("--red and --blue must be given together")
		}
		r, b := redHeading, blueHeading
		cfg.Headings = config.HeadingConfig{Red: &r, Blue: &b}
	}
	if flags.Lookup("metrics") != nil && flags.Changed("metrics") {
		cfg.Metrics = metricNames
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.Display.FPS = frameRate
	}
	if flags.Lookup("save-dir") != nil && flags.Changed("save-dir") {
		cfg.Display.SaveDir = saveDir
	}

	if configFile != "" && !flags.Changed("log-level") && !flags.Changed("log-format") {
		log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, err
		}
		logger = log
	}

	if cfg.Seed == 0 && cfg.Headings.Red == nil {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func newArena(cfg *config.Config) (*arena.Arena, error) {
	a, err := arena.New(cfg.GridSize, automation.ExperimentConfig(cfg).ArenaOptions()...)
	if err != nil {
		return nil, err
	}
	a.Initialize()
	return a, nil
}
