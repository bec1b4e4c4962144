package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sleeplog/pkg/detector"
	"github.com/ccollicutt/sleeplog/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	Delimiter   string
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <activity-log>",
		Short: "Detect the timestamp layout of an activity log",
		Long: `Analyze an activity log to detect the timestamp layout of its record-start lines.

Samples the line that opens each record and tests it against the layouts
tracking apps commonly export. Reports the detected layout with a confidence
score and a ready-to-use YAML configuration snippet.

Optionally generates a starter config file with --write-config.

Example:
  sleeplog detect activity.txt
  sleeplog detect --all activity.txt
  sleeplog detect -w sleeplog.yaml activity.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of records to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected layouts, not just the best match")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", parser.DefaultDelimiter, "Record delimiter line")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	// Check file exists
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("activity log not found: %s", logFile)
	}

	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithDelimiter(opts.Delimiter),
	)

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, logFile, opts)
	default:
		return outputDetectText(w, result, logFile, opts)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Timestamp Layout Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Records sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Records parsed: %d\n", result.ParsedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No timestamp layout detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Check that records are separated by the delimiter line")
		fmt.Fprintln(w, "and set format.timestamp_layout to a Go time layout by hand.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Layout: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d records matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04"))
	fmt.Fprintln(w)

	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "WARNING: %s\n", result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "format:")
	fmt.Fprintf(w, "  timestamp_layout: \"%s\"\n", best.Format.Layout)
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative layouts detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   timestamp_layout: \"%s\"\n", m.Format.Layout)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a layout match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Layout     string  `json:"layout"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
	Ambiguous  bool    `json:"ambiguous,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string      `json:"file"`
	Matches       []JSONMatch `json:"matches"`
	SampledLines  int         `json:"sampled_lines"`
	ParsedLines   int         `json:"parsed_lines"`
	AmbiguityNote string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:          logFile,
		SampledLines:  result.SampledLines,
		ParsedLines:   result.ParsedLines,
		AmbiguityNote: result.AmbiguityNote,
		Matches:       make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Layout:     m.Format.Layout,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			Ambiguous:  m.Format.Ambiguous,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file with the detected layout.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no timestamp layout detected")
	}

	content := generateStarterConfig(logFile, result.BestMatch())

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(logFile string, match *detector.FormatMatch) string {
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	return fmt.Sprintf(`# sleeplog configuration
# Generated by: sleeplog detect
# Detected layout: %s (%.0f%% confidence)

sources:
  - %s
  # Add more activity logs or use globs:
  # - exports/activity*.txt

timezone: UTC

format:
  timestamp_layout: "%s"
  delimiter: "%s"
  duration_unit_suffix: "%s"
  amount_unit_suffix: "%s"

cleaning:
  # Naps longer than this are treated as logging mistakes
  max_nap_minutes: 360
  # Sleep starting before 8 AM counts toward the previous day
  sleep_day_shift: 8h
  # Sleep days to drop entirely, e.g. travel days
  exclusion_dates: []

analysis:
  histogram_bins: 10
`, match.Format.Name, match.Confidence*100,
		absLogFile,
		match.Format.Layout,
		parser.DefaultDelimiter,
		parser.DefaultDurationUnitSuffix,
		parser.DefaultAmountUnitSuffix)
}
