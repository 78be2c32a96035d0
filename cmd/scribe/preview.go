package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/scribe/internal/model"
	"github.com/verte-zerg/scribe/internal/stats"
	"github.com/verte-zerg/scribe/internal/typewriter"
)

const (
	defaultPreviewRuns   = 20
	defaultPreviewSmooth = 5
)

var (
	previewFile   string
	previewRuns   int
	previewSmooth int
	previewWidth  int
	previewColor  bool
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [TEXT]",
		Short: "Show the simulated delays for a text without typing it",
		RunE:  runPreviewCmd,
	}
	cmd.Flags().StringVar(&previewFile, "file", "", "read text from file")
	cmd.Flags().IntVar(&previewRuns, "runs", defaultPreviewRuns, "number of simulated sessions")
	cmd.Flags().IntVar(&previewSmooth, "smooth", defaultPreviewSmooth, "moving average window for the delay profile")
	cmd.Flags().IntVar(&previewWidth, "width", 0, "delay profile width (default: terminal width)")
	cmd.Flags().BoolVar(&previewColor, "color", false, "force colored output")
	return cmd
}

func runPreviewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	text, _, err := readText(cmd.InOrStdin(), args, previewFile)
	if err != nil {
		return err
	}
	if err := typewriter.Validate(text); err != nil {
		return fmt.Errorf("please enter some text to type: %w", err)
	}

	out := cmd.OutOrStdout()
	pcfg := model.PreviewConfig{
		Runs:   previewRuns,
		Smooth: previewSmooth,
		Width:  previewWidth,
		Color:  stats.ShouldUseColor(out, previewColor),
	}
	if err := validatePreviewConfig(pcfg); err != nil {
		return err
	}
	if pcfg.Width == 0 {
		pcfg.Width = stats.TerminalWidth()
	}

	delays := typewriter.NewDelayModel(cfg.MinDelay, cfg.MaxDelay, typewriter.NewSource(cfg.Seed))
	schedule := stats.Sample(delays, text, pcfg.Runs)
	if err := stats.RenderSummary(out, schedule); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderClassTable(out, stats.Aggregate(schedule)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSparkline(out, schedule, pcfg.Width, pcfg.Smooth, pcfg.Color); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func validatePreviewConfig(cfg model.PreviewConfig) error {
	if cfg.Runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if cfg.Smooth <= 0 {
		return fmt.Errorf("--smooth must be > 0")
	}
	if cfg.Width < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	return nil
}
