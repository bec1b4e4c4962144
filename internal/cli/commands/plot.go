package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/sleeplog/internal/cli/plugins"
)

// PlotOptions holds command-line options for the plot command.
type PlotOptions struct {
	InputOptions
	Bins       int
	Print      bool
	PluginArgs []string
}

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	opts := &PlotOptions{}

	cmd := &cobra.Command{
		Use:   "plot [activity-log...]",
		Short: "Render sleep figures through the plot plugin",
		Long: `Analyze activity logs and hand the figure data to the sleeplog-plot plugin.

The plugin receives the analysis as JSON on stdin: daily statistics,
histograms, daily totals and nap/sleep scatter data with regression fits.
Use --print to write the JSON to stdout instead.

The exit code is the plugin's exit code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, args, opts)
		},
	}

	addInputFlags(cmd, &opts.InputOptions)
	cmd.Flags().IntVar(&opts.Bins, "bins", 0, "Histogram bin count (overrides config)")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "Print figure data instead of running the plugin")
	cmd.Flags().StringSliceVar(&opts.PluginArgs, "plugin-arg", nil, "Argument passed to the plugin (can be repeated)")

	return cmd
}

func runPlot(cmd *cobra.Command, args []string, opts *PlotOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var pluginPath string
	if !opts.Print {
		path, err := plugins.FindPlugin(plugins.PlotCommand)
		if errors.Is(err, plugins.ErrPluginNotFound) {
			return errors.New(plugins.FormatNotFoundError(plugins.PlotCommand))
		}
		if err != nil {
			return err
		}
		pluginPath = path
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return err
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

	figures, err := json.MarshalIndent(r.result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding figure data: %w", err)
	}
	figures = append(figures, '\n')

	if opts.Print {
		_, err := cmd.OutOrStdout().Write(figures)
		return err
	}

	logger.Debug("running plot plugin",
		zap.String("plugin", pluginPath),
		zap.Strings("args", opts.PluginArgs))

	code, err := plugins.Run(ctx, pluginPath, opts.PluginArgs, plugins.Streams{
		Stdin:  bytes.NewReader(figures),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("running plot plugin: %w", err)
	}
	ExitCode = code

	return nil
}
