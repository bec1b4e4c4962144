package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/aggregate"
	"github.com/ccollicutt/sleeplog/pkg/cleaning"
)

// barWidth is the widest histogram bar drawn.
const barWidth = 40

const recordTimeLayout = "2006-01-02 15:04"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// styles are bound to a renderer so color is only emitted on terminals.
type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	bar     lipgloss.Style
	header  lipgloss.Style
	border  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		bar:     r.NewStyle().Foreground(lipgloss.Color("#5C9CF5")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		border:  r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "sleeplog: %d records from %d files, %d naps and %d sleeps kept\n",
		report.Summary.Records,
		report.Summary.Files,
		report.Summary.Naps,
		report.Summary.Sleeps)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	s := newStyles(w)

	fmt.Fprintln(w, s.title.Render("=== Sleeplog Report ==="))
	fmt.Fprintln(w)

	f.formatParsed(report, s, w)

	if len(report.Records) > 0 {
		f.formatRecords(report.Records, s, w)
	}

	if len(report.Cleaning) > 0 {
		f.formatCleaning(report.Cleaning, s, w)
	}

	if report.Analysis != nil {
		f.formatDaily(report.Analysis, s, w)
		f.formatHistograms(report.Analysis.Histograms, s, w)
		f.formatScatters(report.Analysis.Scatters, s, w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d records from %d files, %d naps and %d sleeps kept\n",
		report.Summary.Records,
		report.Summary.Files,
		report.Summary.Naps,
		report.Summary.Sleeps)

	if f.opts.Verbose {
		for _, src := range report.Metadata.Sources {
			fmt.Fprintf(w, "Source: %s\n", src)
		}
		if report.Metadata.ConfigFile != "" {
			fmt.Fprintf(w, "Config: %s\n", report.Metadata.ConfigFile)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatParsed(report *Report, s styles, w io.Writer) {
	fmt.Fprintln(w, s.heading.Render("Records"))
	fmt.Fprintf(w, "  %d record(s) from %d file(s)\n", report.Summary.Records, report.Summary.Files)

	types := make([]string, 0, len(report.Summary.ByType))
	for name := range report.Summary.ByType {
		types = append(types, name)
	}
	sort.Strings(types)
	for _, name := range types {
		label := name
		if label == "" {
			label = "(untyped)"
		}
		fmt.Fprintf(w, "  %-12s %d\n", label+":", report.Summary.ByType[name])
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatRecords(records activity.Dataset, s styles, w io.Writer) {
	for i := range records {
		r := &records[i]
		kind := r.Category.Name
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(w, "  %s -> %s  %-8s %6.1f min", r.Start.Format(recordTimeLayout), r.End.Format(recordTimeLayout), kind, r.Duration)
		if amount, ok := r.Amount(); ok {
			fmt.Fprintf(w, "  %g ml", amount)
		}
		fmt.Fprintln(w)

		if f.opts.Verbose {
			keys := make([]string, 0, len(r.Fields))
			for k := range r.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "    %s: %s\n", k, r.Fields[k])
			}
			if r.Source != "" {
				fmt.Fprintln(w, s.muted.Render(fmt.Sprintf("    Source: %s:%d", r.Source, r.Line)))
			}
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatCleaning(events []cleaning.Event, s styles, w io.Writer) {
	fmt.Fprintln(w, s.heading.Render("Cleaning"))
	for _, e := range events {
		fmt.Fprintf(w, "  %-7s %d -> %d", e.Stage+":", e.Before, e.After)

		reasons := make([]string, 0, len(e.Removed))
		for reason, n := range e.Removed {
			reasons = append(reasons, fmt.Sprintf("%s: %d", reason, n))
		}
		sort.Strings(reasons)
		if len(reasons) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(reasons, ", "))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// dailyRow joins nap and sleep statistics for one day.
type dailyRow struct {
	nap, sleep aggregate.DayStats
}

func (f *TextFormatter) formatDaily(result *aggregate.Result, s styles, w io.Writer) {
	rows := make(map[activity.Date]*dailyRow)
	var days []activity.Date
	get := func(d activity.Date) *dailyRow {
		row, ok := rows[d]
		if !ok {
			row = &dailyRow{}
			rows[d] = row
			days = append(days, d)
		}
		return row
	}
	for _, n := range result.Naps {
		get(n.Day).nap = n
	}
	for _, sl := range result.Sleeps {
		get(sl.Day).sleep = sl
	}
	if len(days) == 0 {
		return
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	fmt.Fprintln(w, s.heading.Render("Daily statistics (hours)"))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Day", "Naps", "Nap Total", "Longest Nap", "Sleeps", "Sleep Total", "Longest Sleep")

	for _, d := range days {
		row := rows[d]
		t.Row(
			d.String(),
			fmt.Sprintf("%d", row.nap.Count),
			formatHours(row.nap.Total),
			formatMax(row.nap),
			fmt.Sprintf("%d", row.sleep.Count),
			formatHours(row.sleep.Total),
			formatMax(row.sleep),
		)
	}

	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatHistograms(histograms []aggregate.Histogram, s styles, w io.Writer) {
	for _, h := range histograms {
		fmt.Fprintln(w, s.heading.Render(h.Title+" (hours)"))

		peak := 0
		for _, c := range h.Counts {
			if c > peak {
				peak = c
			}
		}

		for i, c := range h.Counts {
			width := 0
			if peak > 0 {
				width = c * barWidth / peak
			}
			bar := s.bar.Render(strings.Repeat("#", width))
			fmt.Fprintf(w, "  %6.2f - %6.2f | %s %d\n", h.Edges[i], h.Edges[i+1], bar, c)
		}
		fmt.Fprintln(w)
	}
}

func (f *TextFormatter) formatScatters(scatters []aggregate.Scatter, s styles, w io.Writer) {
	if len(scatters) == 0 {
		return
	}
	fmt.Fprintln(w, s.heading.Render("Correlations"))
	for _, sc := range scatters {
		if sc.Fit == nil {
			fmt.Fprintf(w, "  %s: not enough data (%d points)\n", sc.Title, len(sc.Points))
			continue
		}
		fmt.Fprintf(w, "  %s: y = %.3fx + %.3f, r = %.3f (n=%d)\n",
			sc.Title, sc.Fit.Slope, sc.Fit.Intercept, sc.Fit.R, sc.Fit.N)

		if f.opts.Verbose {
			for _, p := range sc.Points {
				fmt.Fprintln(w, s.muted.Render(fmt.Sprintf("    %s  x=%.2f y=%.2f", p.Day, p.X, p.Y)))
			}
		}
	}
	fmt.Fprintln(w)
}

func formatHours(minutes float64) string {
	return fmt.Sprintf("%.2f", minutes/60)
}

func formatMax(stats aggregate.DayStats) string {
	if !stats.HasMax() {
		return "-"
	}
	return formatHours(stats.Max)
}
