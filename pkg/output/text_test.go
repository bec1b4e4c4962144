package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := NewReport(nil, nil, "")

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Sleeplog Report") {
		t.Error("Output missing header")
	}
	if !strings.Contains(output, "0 records from 0 files") {
		t.Error("Output missing summary")
	}
	if strings.Contains(output, "Daily statistics") {
		t.Error("Output should not contain daily statistics without analysis")
	}
}

func TestTextFormatter_Format_WithAnalysis(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createTestReport()

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"6 record(s) from 1 file(s)",
		"nap:",
		"feed:",
		"naps:   3 -> 2 (too_long: 1)",
		"Daily statistics (hours)",
		"2020-01-01",
		"2020-01-02",
		"Individual sleep durations (hours)",
		"Correlations",
		"Max Nap Length vs Total Sleep",
		"2 naps and 2 sleeps kept",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\n%s", want, output)
		}
	}

	if strings.Contains(output, "Duration:") {
		t.Error("Non-verbose output should not include duration")
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})
	report := createTestReport()

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := strings.TrimSpace(buf.String())
	lines := strings.Split(output, "\n")
	if len(lines) != 1 {
		t.Errorf("Quiet mode should produce 1 line, got %d", len(lines))
	}
	if output != "sleeplog: 6 records from 1 files, 2 naps and 2 sleeps kept" {
		t.Errorf("Quiet output = %q", output)
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})
	report := createTestReport()

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Source: activity.txt") {
		t.Error("Verbose output missing source")
	}
	if !strings.Contains(output, "Config: sleeplog.yaml") {
		t.Error("Verbose output missing config file")
	}
	if !strings.Contains(output, "Duration: 150ms") {
		t.Error("Verbose output missing duration")
	}
}

func TestTextFormatter_Format_Records(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})
	report := createTestReport()
	if report.Records != nil {
		t.Fatal("Records should not be attached by default")
	}
	report.WithRecords(testDataset())

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "2020-01-01 09:00 -> 2020-01-01 09:00") {
		t.Errorf("Output missing point record\n%s", output)
	}
	if !strings.Contains(output, "120 ml") {
		t.Error("Output missing amount")
	}
	if !strings.Contains(output, "amount: 120") {
		t.Error("Verbose output missing fields")
	}
	if !strings.Contains(output, "Source: activity.txt:20") {
		t.Error("Verbose output missing record source")
	}
}
