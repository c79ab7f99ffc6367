package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/boxsim/internal/analysis"
	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/storage"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir, logger).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tTICKS\tSEED\tCONTACTS\tFINGERPRINT")
			for _, run := range runs {
				name := run.Name
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%d\t%s\t%d\t%s\n",
					run.ID,
					name,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.GridSize,
					run.TicksRun,
					seedLabel(run.RunInfo),
					run.Contacts,
					run.Fingerprint,
				)
			}
			return w.Flush()
		},
	}
}

func seedLabel(info storage.RunInfo) string {
	if info.RedHeading != nil && info.BlueHeading != nil {
		return fmt.Sprintf("fixed(%.3f,%.3f)", *info.RedHeading, *info.BlueHeading)
	}
	return fmt.Sprintf("%d", info.Seed)
}

// loadSamples returns a run's metadata and its trajectory as snapshots.
func loadSamples(runID string) (*storage.RunMetadata, []arena.Snapshot, error) {
	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := traj.Snapshots(meta.GridSize)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no data to plot")
	}
	return meta, samples, nil
}

func mobileKinds(s arena.Snapshot) []arena.Kind {
	kinds := make([]arena.Kind, 0, 2)
	for _, b := range s.Mobile() {
		kinds = append(kinds, b.Kind)
	}
	return kinds
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot block positions over time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadSamples(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("samples: %d (every %d ticks)\n\n", len(samples), meta.SampleEvery)

			for _, axis := range []analysis.Axis{analysis.AxisX, analysis.AxisY} {
				series := make([][]float64, 0, 2)
				for _, k := range mobileKinds(samples[0]) {
					series = append(series, analysis.Series(samples, k, axis))
				}
				graph := asciigraph.PlotMany(series,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
					asciigraph.Caption(axis.String()+" vs tick (red, blue)"),
				)
				fmt.Println(graph)
				fmt.Println()
			}
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce period analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadSamples(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("frequency analysis: %s\n\n", meta.ID)

			red := analysis.Series(samples, arena.RedBlock, analysis.AxisX)
			ps := analysis.PowerSpectrum(red)
			if len(ps) > 4 {
				graph := asciigraph.Plot(ps[:len(ps)/4],
					asciigraph.Height(15),
					asciigraph.Width(80),
					asciigraph.Caption("power spectrum (red x)"),
				)
				fmt.Println(graph)
				fmt.Println()
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BODY\tAXIS\tPERIOD (ticks)")
			for _, k := range mobileKinds(samples[0]) {
				for _, axis := range []analysis.Axis{analysis.AxisX, analysis.AxisY} {
					period := analysis.DominantPeriod(analysis.Series(samples, k, axis)) * float64(meta.SampleEvery)
					label := "-"
					if period > 0 {
						label = fmt.Sprintf("%.1f", period)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", k, axis, label)
				}
			}
			fmt.Fprintf(w, "\ncontacts\t\t%d\n", meta.Contacts)
			return w.Flush()
		},
	}
}

func newPhaseCmd() *cobra.Command {
	var body, xAxis, yAxis string

	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "path or phase plot of one block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := arena.ParseKind(body)
			if err != nil {
				return err
			}
			xa, err := analysis.ParseAxis(xAxis)
			if err != nil {
				return err
			}
			ya, err := analysis.ParseAxis(yAxis)
			if err != nil {
				return err
			}

			meta, samples, err := loadSamples(args[0])
			if err != nil {
				return err
			}

			portrait := analysis.PathPortrait(samples, kind, xa, ya)
			if len(portrait.Points) == 0 {
				return fmt.Errorf("run %s has no %s", meta.ID, kind)
			}

			fmt.Printf("phase plot: %s\n", meta.ID)
			fmt.Printf("%s: %s vs %s\n\n", kind, ya, xa)
			fmt.Print(analysis.PortraitToASCII(portrait, 70, 24))
			return nil
		},
	}
	cmd.Flags().StringVar(&body, "body", "red_block", "block to plot (red_block, blue_block)")
	cmd.Flags().StringVar(&xAxis, "x-axis", "x", "horizontal axis (x, y, vx, vy, speed)")
	cmd.Flags().StringVar(&yAxis, "y-axis", "y", "vertical axis (x, y, vx, vy, speed)")
	return cmd
}

func newDivergeCmd() *cobra.Command {
	var cfg analysis.DivergenceConfig

	cmd := &cobra.Command{
		Use:   "diverge",
		Short: "measure sensitivity to a tiny red heading perturbation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := analysis.Divergence(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			logSep := make([]float64, len(res.Separation))
			for i, s := range res.Separation {
				logSep[i] = safeLog10(s)
			}
			graph := asciigraph.Plot(logSep,
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption("log10 separation vs tick"),
			)
			fmt.Println(graph)
			fmt.Println()
			fmt.Printf("final separation: %.6g\n", res.Separation[len(res.Separation)-1])
			fmt.Printf("growth rate: %.6g per tick\n", res.GrowthRate)
			if res.Saturated >= 0 {
				fmt.Printf("saturated at tick: %d\n", res.Saturated)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&cfg.GridSize, "grid", arena.DefaultGridSize, "arena side length")
	cmd.Flags().IntVar(&cfg.Ticks, "ticks", 2000, "number of ticks")
	cmd.Flags().Float64Var(&cfg.Red, "red", 0.8, "red heading in radians")
	cmd.Flags().Float64Var(&cfg.Blue, "blue", 4.1, "blue heading in radians")
	cmd.Flags().Float64Var(&cfg.Perturbation, "eps", 1e-9, "red heading perturbation in radians")
	return cmd
}

func printSnapshot(s arena.Snapshot) {
	fmt.Printf("tick: %d\n", s.Tick)
	fmt.Printf("grid: %.0f\n", s.GridSize)
	fmt.Printf("fingerprint: %s\n\n", storage.FormatFingerprint(s.Fingerprint()))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tPOSITION\tVELOCITY\tSIZE\tSTATIC")
	for _, b := range s.Bodies {
		fmt.Fprintf(w, "%s\t(%.3f, %.3f)\t(%.3f, %.3f)\t%d\t%t\n",
			b.Kind, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y, b.Size, b.Static)
	}
	_ = w.Flush()
}

func arenaFromSnapshot(s arena.Snapshot) (*arena.Arena, error) {
	a, err := arena.New(s.GridSize)
	if err != nil {
		return nil, err
	}
	if err := a.Restore(s); err != nil {
		return nil, err
	}
	return a, nil
}

func safeLog10(v float64) float64 {
	if v <= 0 {
		return -16
	}
	return math.Log10(v)
}
