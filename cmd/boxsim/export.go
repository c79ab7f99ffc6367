package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/analysis"
	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/export"
	"github.com/san-kum/boxsim/internal/storage"
)

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir, logger).ExportJSON(os.Stdout, args[0])
		},
	}
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir, logger).ExportCSV(os.Stdout, args[0])
		},
	}
}

func newExportSVGCmd() *cobra.Command {
	var pixels int
	var out, axisName, body string

	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final arena and block trails, or one series, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]
			st := storage.New(dataDir, logger)

			_, samples, err := loadSamples(runID)
			if err != nil {
				return err
			}

			var svg string
			if axisName != "" {
				kind, err := arena.ParseKind(body)
				if err != nil {
					return err
				}
				axis, err := analysis.ParseAxis(axisName)
				if err != nil {
					return err
				}
				svg = export.SeriesSVG(analysis.Series(samples, kind, axis), pixels, pixels/2, kind.Color().Hex())
			} else {
				final, err := st.LoadFinal(runID)
				if err != nil {
					return err
				}
				svg = export.ArenaSVG(final, export.TrailsFromSamples(samples), pixels)
			}
			if out == "" {
				fmt.Println(svg)
				return nil
			}
			if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
				return err
			}
			logger.Info("svg written", zap.String("path", out), zap.String("run", runID))
			return nil
		},
	}
	cmd.Flags().IntVar(&pixels, "size", 800, "image side in pixels")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&axisName, "axis", "", "plot one block's series instead (x, y, vx, vy, speed)")
	cmd.Flags().StringVar(&body, "body", "red_block", "block for --axis")
	return cmd
}
