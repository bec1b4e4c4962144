package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sleeplog/pkg/config"
	"github.com/ccollicutt/sleeplog/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a sleeplog configuration file without parsing any logs.

Checks:
  - YAML syntax
  - Required fields
  - Time zone and timestamp layout validity
  - Cleaning and analysis ranges
  - Source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Sources:          %d pattern(s)\n", len(cfg.Sources))
	fmt.Fprintf(w, "  Timezone:         %s\n", cfg.Timezone)
	fmt.Fprintf(w, "  Timestamp layout: %s\n", cfg.Format.TimestampLayout)
	fmt.Fprintf(w, "  Max nap:          %g min\n", cfg.Cleaning.MaxNapMinutes)
	fmt.Fprintf(w, "  Sleep day shift:  %s\n", cfg.Cleaning.SleepDayShift)
	fmt.Fprintf(w, "  Histogram bins:   %d\n", cfg.Analysis.HistogramBins)

	if len(cfg.Cleaning.ExclusionDates) > 0 {
		fmt.Fprintf(w, "\nExcluded sleep days:\n")
		for _, d := range cfg.Cleaning.ExclusionDates {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}

	// Check if sources exist (warnings only)
	files, err := parser.ExpandGlobs(cfg.Sources)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding source patterns: %v\n", err)
	} else if len(files) == 0 {
		fmt.Fprintf(w, "\nWarning: No files match source patterns\n")
	} else {
		fmt.Fprintf(w, "\nActivity logs matched: %d\n", len(files))
		for _, f := range files {
			if _, err := os.Stat(f); err != nil {
				fmt.Fprintf(w, "  - %s (warning: %v)\n", f, err)
				continue
			}
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}

	return nil
}
