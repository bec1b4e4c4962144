package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/output"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	InputOptions
	Output string
	Types  []string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [activity-log...]",
		Short: "Parse activity logs and print the records",
		Long: `Parse activity logs and print every sanitized record.

No cleaning or aggregation is applied. Use --type to keep only records of the
given normalized types (sleep, nap, or any other activity name).

Files default to the configured sources when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	addInputFlags(cmd, &opts.InputOptions)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringSliceVarP(&opts.Types, "type", "t", nil, "Only print records of this type (can be repeated)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
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

	files, err := resolveFiles(cfg, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(&opts.InputOptions)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := newParser(cfg, logger).ParseFiles(ctx, files)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if len(opts.Types) > 0 {
		names := typeNames(opts.Types)
		data = data.Filter(func(r *activity.Record) bool {
			_, ok := names[r.Category.Name]
			return ok
		})
	}

	report := output.NewReport(data, files, opts.ConfigPath).
		WithRecords(data).
		Finish(started, time.Now())

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	return nil
}

// typeNames normalizes type filters. "sleep" and "nap" name the two sleep
// categories; anything else is normalized like a type field value.
func typeNames(raw []string) map[string]struct{} {
	names := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		var c activity.Category
		_ = c.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(r))))
		names[c.Name] = struct{}{}
	}
	return names
}
