package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ccollicutt/sleeplog/internal/cli"
	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/aggregate"
	"github.com/ccollicutt/sleeplog/pkg/cleaning"
	"github.com/ccollicutt/sleeplog/pkg/config"
	"github.com/ccollicutt/sleeplog/pkg/output"
	"github.com/ccollicutt/sleeplog/pkg/parser"
)

var (
	projectRoot string
	rootOnce    sync.Once
)

// chdir changes to the project root directory for tests.
// Config files use paths relative to project root.
func chdir(t *testing.T) {
	t.Helper()
	rootOnce.Do(func() {
		// Get the directory containing this test file, then go up one level
		_, filename, _, _ := runtime.Caller(0)
		projectRoot = filepath.Dir(filepath.Dir(filename))
	})
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("Failed to chdir to project root: %v", err)
	}
}

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
}

const configFile = "testdata/configs/sleeplog.yaml"

// pipeline is the result of running the sample logs end to end.
type pipeline struct {
	cfg       *config.Config
	files     []string
	data      activity.Dataset
	partition cleaning.Partition
	events    []cleaning.Event
	result    *aggregate.Result
}

func runPipeline(t *testing.T) *pipeline {
	t.Helper()
	chdir(t)
	requireFile(t, configFile)
	ctx := context.Background()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	files, err := parser.ExpandGlobs(cfg.Sources)
	if err != nil {
		t.Fatalf("Failed to expand globs: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 activity logs, got %v", files)
	}

	p := parser.New(
		parser.WithTimestampLayout(cfg.Format.TimestampLayout),
		parser.WithLocation(cfg.Location()),
		parser.WithDelimiter(cfg.Format.Delimiter),
		parser.WithUnitSuffixes(cfg.Format.DurationUnitSuffix, cfg.Format.AmountUnitSuffix),
	)
	data, err := p.ParseFiles(ctx, files)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	collector := &cleaning.Collector{}
	part := cleaning.New(&cfg.Cleaning, collector).Apply(data)
	result := aggregate.NewAnalyzer(aggregate.WithBins(cfg.Analysis.HistogramBins)).Analyze(part)

	return &pipeline{
		cfg:       cfg,
		files:     files,
		data:      data,
		partition: part,
		events:    collector.Events,
		result:    result,
	}
}

func durations(entries []cleaning.Entry) []float64 {
	var out []float64
	for _, r := range cleaning.Records(entries) {
		out = append(out, r.Duration)
	}
	return out
}

// TestE2E_NightSleepRange parses a single night sleep spanning midnight.
func TestE2E_NightSleepRange(t *testing.T) {
	data, err := parser.New().ParseReader(context.Background(), strings.NewReader(
		"2020-01-23 11:00 PM ~ 2020-01-24 06:00 AM\nType: Night sleep\n====================\n"), "activity.txt")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(data) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(data))
	}

	rec := data[0]
	if !rec.Start.Equal(time.Date(2020, 1, 23, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", rec.Start)
	}
	if !rec.End.Equal(time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)) {
		t.Errorf("End = %v", rec.End)
	}
	if rec.Category != activity.Sleep {
		t.Errorf("type = %q, want sleep", rec.Category)
	}
	if rec.Duration != 420 {
		t.Errorf("Duration = %v, want 420", rec.Duration)
	}
}

// TestE2E_NapExplicitDuration parses a point nap with a supplied duration.
func TestE2E_NapExplicitDuration(t *testing.T) {
	data, err := parser.New().ParseReader(context.Background(), strings.NewReader(
		"2020-02-13 01:15 PM\nType: Sleep\nDuration: 30 (min)\n====================\n"), "activity.txt")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(data) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(data))
	}

	rec := data[0]
	if !rec.Start.Equal(rec.End) {
		t.Errorf("Start = %v, End = %v, want equal", rec.Start, rec.End)
	}
	if rec.Duration != 30 {
		t.Errorf("Duration = %v, want 30", rec.Duration)
	}
	if rec.Category != activity.Nap {
		t.Errorf("type = %q, want nap", rec.Category)
	}
}

func TestE2E_Pipeline(t *testing.T) {
	p := runPipeline(t)

	if len(p.data) != 12 {
		t.Errorf("Expected 12 records, got %d", len(p.data))
	}

	wantCounts := map[string]int{"sleep": 6, "nap": 5, "bottle": 1}
	if diff := cmp.Diff(wantCounts, p.data.Counts()); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}

	// Records keep file-then-line order
	if !strings.HasSuffix(p.data[0].Source, "activity-2020-01.txt") || p.data[0].Line != 1 {
		t.Errorf("first record from %s:%d", p.data[0].Source, p.data[0].Line)
	}
	if !strings.HasSuffix(p.data[7].Source, "activity-2020-02.txt") {
		t.Errorf("eighth record from %s, want the February log", p.data[7].Source)
	}

	bottle := p.data[1]
	if amount, ok := bottle.Amount(); !ok || amount != 120 {
		t.Errorf("Amount() = %v, %v; want 120, true", amount, ok)
	}
	if note, _ := bottle.Field("note"); note.Text != "finished it all" {
		t.Errorf("note = %q", note)
	}

	// Blank line after the bottle record does not end the file
	if got := len(p.data.ByKind(activity.KindSleep)); got != 6 {
		t.Errorf("Expected 6 night sleeps, got %d", got)
	}
}

// TestE2E_NapCleaning drops the 400 minute and the zero-length nap.
func TestE2E_NapCleaning(t *testing.T) {
	p := runPipeline(t)

	if diff := cmp.Diff([]float64{200, 30, 90}, durations(p.partition.Naps)); diff != "" {
		t.Errorf("Kept nap durations mismatch (-want +got):\n%s", diff)
	}

	naps := p.events[0]
	if naps.Stage != "naps" {
		t.Fatalf("first event stage = %q, want naps", naps.Stage)
	}
	want := map[cleaning.Reason]int{cleaning.ReasonTooLong: 1, cleaning.ReasonZeroDuration: 1}
	if diff := cmp.Diff(want, naps.Removed); diff != "" {
		t.Errorf("Nap removals mismatch (-want +got):\n%s", diff)
	}
}

// TestE2E_SleepCleaning drops both sleeps bucketed onto the excluded day.
// TestE2E_NapTypeCleaned checks that a record typed "Nap" goes through nap
// cleaning like a "Sleep" record does.
func TestE2E_NapTypeCleaned(t *testing.T) {
	data, err := parser.New().ParseReader(context.Background(), strings.NewReader(
		"2020-01-23 01:00 PM\nType: Nap\nDuration: 400 (min)\n====================\n"+
			"2020-01-24 01:00 PM\nType: nap\nDuration: 45 (min)\n====================\n"), "activity.txt")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := len(data.ByKind(activity.KindNap)); got != 2 {
		t.Fatalf("ByKind(nap) = %d records, want 2", got)
	}

	cfg := config.DefaultConfig()
	collector := &cleaning.Collector{}
	part := cleaning.New(&cfg.Cleaning, collector).Apply(data)

	if diff := cmp.Diff([]float64{45}, durations(part.Naps)); diff != "" {
		t.Errorf("Kept nap durations mismatch (-want +got):\n%s", diff)
	}
	if len(collector.Events) == 0 || collector.Events[0].Removed[cleaning.ReasonTooLong] != 1 {
		t.Errorf("Expected one too_long nap removal, got %+v", collector.Events)
	}
}

func TestE2E_SleepCleaning(t *testing.T) {
	p := runPipeline(t)

	excluded := activity.Date{Year: 2020, Month: time.February, Day: 14}
	for _, e := range p.partition.Sleeps {
		if e.Day == excluded {
			t.Errorf("sleep starting %v kept on excluded day", e.Record.Start)
		}
	}

	if diff := cmp.Diff([]float64{420, 360, 210, 540}, durations(p.partition.Sleeps)); diff != "" {
		t.Errorf("Kept sleep durations mismatch (-want +got):\n%s", diff)
	}

	sleeps := p.events[1]
	if sleeps.Removed[cleaning.ReasonExcludedDate] != 2 {
		t.Errorf("excluded_date removals = %d, want 2", sleeps.Removed[cleaning.ReasonExcludedDate])
	}

	// Cleaning a cleaned partition removes nothing
	again := cleaning.New(&p.cfg.Cleaning, nil)
	if got := len(again.CleanSleeps(p.partition.Sleeps)); got != len(p.partition.Sleeps) {
		t.Errorf("second sleep pass kept %d, want %d", got, len(p.partition.Sleeps))
	}
	if got := len(again.CleanNaps(p.partition.Naps)); got != len(p.partition.Naps) {
		t.Errorf("second nap pass kept %d, want %d", got, len(p.partition.Naps))
	}
}

func TestE2E_DailyStatistics(t *testing.T) {
	p := runPipeline(t)
	r := p.result

	// Sleep days run from Jan 23 to Feb 15 inclusive
	if len(r.Sleeps) != 24 {
		t.Fatalf("Expected 24 sleep days, got %d", len(r.Sleeps))
	}
	jan24 := r.Sleeps[1]
	if jan24.Day.String() != "2020-01-24" {
		t.Fatalf("second sleep day = %s", jan24.Day)
	}
	// The 3 AM sleep counts toward the previous evening
	want := aggregate.DayStats{Day: jan24.Day, Total: 570, Max: 360, Count: 2}
	if jan24 != want {
		t.Errorf("Jan 24 sleep = %+v, want %+v", jan24, want)
	}

	if r.Metadata.FirstDay != "2020-01-23" || r.Metadata.LastDay != "2020-02-15" {
		t.Errorf("span = %s..%s", r.Metadata.FirstDay, r.Metadata.LastDay)
	}
	if len(r.Histograms) != 4 || len(r.Scatters) != 6 {
		t.Errorf("Got %d histograms and %d scatters", len(r.Histograms), len(r.Scatters))
	}
}

func TestE2E_TextOutput(t *testing.T) {
	p := runPipeline(t)

	report := output.NewReport(p.data, p.files, configFile).
		WithCleaning(p.events, p.partition).
		WithAnalysis(p.result)

	var buf bytes.Buffer
	if err := output.NewTextFormatter(output.FormatOptions{}).Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"12 record(s) from 2 file(s)",
		"excluded_date: 2",
		"2020-01-24",
		"3 naps and 4 sleeps kept",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q", want)
		}
	}
}

func TestE2E_CLI_AnalyzeJSON(t *testing.T) {
	chdir(t)

	root := cli.NewRootCommand()
	root.SetArgs([]string{"analyze", "--config", configFile, "--output", "json"})
	var buf bytes.Buffer
	root.SetOut(&buf)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if report.Summary.Files != 2 || report.Summary.Records != 12 {
		t.Errorf("Summary = %+v", report.Summary)
	}
	if report.Summary.Naps != 3 || report.Summary.Sleeps != 4 {
		t.Errorf("Naps, Sleeps = %d, %d; want 3, 4", report.Summary.Naps, report.Summary.Sleeps)
	}
}

func TestE2E_CLI_ParsePositionalFiles(t *testing.T) {
	chdir(t)

	root := cli.NewRootCommand()
	root.SetArgs([]string{"parse", "-o", "json", "--type", "bottle", "testdata/logs/activity-2020-01.txt"})
	var buf bytes.Buffer
	root.SetOut(&buf)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(report.Records) != 1 || report.Records[0].Category.Name != "bottle" {
		t.Errorf("Records = %+v", report.Records)
	}
}

func TestE2E_CLI_InvalidConfig(t *testing.T) {
	chdir(t)
	requireFile(t, "testdata/configs/invalid_timezone.yaml")

	root := cli.NewRootCommand()
	root.SetArgs([]string{"validate", "testdata/configs/invalid_timezone.yaml"})
	root.SetOut(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "timezone") {
		t.Errorf("error should name the timezone: %v", err)
	}
}

func TestE2E_ParseErrorLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.txt")
	content := "2020-01-24 04:00 PM\nType: Sleep\n====================\n2020-01-24 25:00 PM\nType: Sleep\n====================\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := parser.New().ParseFiles(context.Background(), []string{path})
	if err == nil {
		t.Fatal("Expected parse error")
	}

	var fe *parser.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *parser.FormatError", err)
	}
	if fe.Source != path || fe.Line != 4 {
		t.Errorf("error at %s:%d, want %s:4", fe.Source, fe.Line, path)
	}
	if !strings.Contains(err.Error(), path+":4") {
		t.Errorf("error message should locate the line: %v", err)
	}
}

func TestE2E_UnterminatedRecord(t *testing.T) {
	_, err := parser.New().ParseReader(context.Background(), strings.NewReader(
		"2020-01-24 04:00 PM\nType: Sleep\n====================\n2020-01-25 09:00 AM\nType: Bottle\n"), "activity.txt")

	var se *parser.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *parser.StructuralError", err)
	}
	if se.Line != 4 {
		t.Errorf("Line = %d, want the record's start line 4", se.Line)
	}
}
