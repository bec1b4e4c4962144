package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sleeplog/pkg/output"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	InputOptions
	Output string
	Bins   int
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [activity-log...]",
		Short: "Summarize daily sleep and nap patterns",
		Long: `Parse activity logs, clean the sleep records and report daily statistics.

Reports:
  - Daily nap and sleep totals, counts and longest stretch
  - Histograms of individual and daily total durations
  - Nap/sleep correlations with least-squares fits

Files default to the configured sources when none are given.

Exit codes:
  0 - Success
  2 - Configuration, parse or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	addInputFlags(cmd, &opts.InputOptions)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVar(&opts.Bins, "bins", 0, "Histogram bin count (overrides config)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	started := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter, err := createFormatter(opts.Output, &opts.InputOptions)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Bins < 0 {
		return fmt.Errorf("invalid bins %d: must be positive", opts.Bins)
	}
	if opts.Bins > 0 {
		cfg.Analysis.HistogramBins = opts.Bins
	}

	files, err := resolveFiles(cfg, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(&opts.InputOptions)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	r, err := analyzeFiles(ctx, cfg, files, logger)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := output.NewReport(r.data, r.files, opts.ConfigPath).
		WithCleaning(r.events, r.partition).
		WithAnalysis(r.result).
		Finish(started, time.Now())

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	return nil
}
