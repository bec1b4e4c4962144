package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/sleeplog/internal/logging"
	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/aggregate"
	"github.com/ccollicutt/sleeplog/pkg/cleaning"
	"github.com/ccollicutt/sleeplog/pkg/config"
	"github.com/ccollicutt/sleeplog/pkg/output"
	"github.com/ccollicutt/sleeplog/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// InputOptions are the flags shared by commands that read activity logs.
type InputOptions struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// loadConfig loads the config file when one is given, and otherwise
// validates the defaults with environment overrides applied.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	cfg := config.DefaultConfig()
	cfg.ApplyEnvironmentOverrides()
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// resolveFiles expands positional arguments, or the configured sources
// when there are none.
func resolveFiles(cfg *config.Config, args []string) ([]string, error) {
	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Sources
	}

	files, err := parser.ExpandGlobs(patterns)
	if err != nil {
		return nil, fmt.Errorf("expanding sources: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no activity logs matched patterns: %v", patterns)
	}
	return files, nil
}

func newLogger(opts *InputOptions) (*zap.Logger, error) {
	return logging.New(logging.Options{Verbose: opts.Verbose, Quiet: opts.Quiet})
}

func newParser(cfg *config.Config, logger *zap.Logger) *parser.Parser {
	return parser.New(
		parser.WithTimestampLayout(cfg.Format.TimestampLayout),
		parser.WithLocation(cfg.Location()),
		parser.WithDelimiter(cfg.Format.Delimiter),
		parser.WithUnitSuffixes(cfg.Format.DurationUnitSuffix, cfg.Format.AmountUnitSuffix),
		parser.WithLogger(logger),
	)
}

// run is one pass of the parse, clean and aggregate pipeline.
type run struct {
	files     []string
	data      activity.Dataset
	partition cleaning.Partition
	events    []cleaning.Event
	result    *aggregate.Result
}

// analyzeFiles parses files, cleans the sleep records and aggregates them.
func analyzeFiles(ctx context.Context, cfg *config.Config, files []string, logger *zap.Logger) (*run, error) {
	data, err := newParser(cfg, logger).ParseFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed activity logs",
		zap.Int("files", len(files)),
		zap.Int("records", len(data)))

	collector := &cleaning.Collector{}
	sink := cleaning.MultiSink{collector, cleaning.NewZapSink(logger)}
	part := cleaning.New(&cfg.Cleaning, sink).Apply(data)

	result := aggregate.NewAnalyzer(aggregate.WithBins(cfg.Analysis.HistogramBins)).Analyze(part)

	return &run{
		files:     files,
		data:      data,
		partition: part,
		events:    collector.Events,
		result:    result,
	}, nil
}

func createFormatter(format string, opts *InputOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch format {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}

func addInputFlags(cmd *cobra.Command, opts *InputOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (defaults apply when omitted)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging and detailed output")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
}
