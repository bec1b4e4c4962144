package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/sleeplog/pkg/config"
	"github.com/ccollicutt/sleeplog/pkg/detector"
)

func mockResult(layout string) *detector.DetectionResult {
	return &detector.DetectionResult{
		Matches: []detector.FormatMatch{
			{
				Format:     &detector.TimestampFormat{Name: "ISO date, 24-hour clock", Layout: layout},
				Confidence: 0.95,
				MatchCount: 19,
			},
		},
		SampledLines: 20,
		ParsedLines:  19,
	}
}

func TestGenerateStarterConfig(t *testing.T) {
	content := generateStarterConfig("/data/activity.txt", mockResult("2006-01-02 15:04").BestMatch())

	checks := []string{
		"sources:",
		"/data/activity.txt",
		"timestamp_layout: \"2006-01-02 15:04\"",
		"exclusion_dates:",
		"ISO date, 24-hour clock",
		"95%",
	}

	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Errorf("Config missing %q", check)
		}
	}
}

func TestWriteStarterConfig_Loads(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := writeFile(t, tmpDir, "activity.txt", sampleLog)
	configPath := filepath.Join(tmpDir, "sleeplog.yaml")

	var out strings.Builder
	if err := writeStarterConfig(&out, mockResult("2006-01-02 15:04"), logPath, configPath); err != nil {
		t.Fatalf("writeStarterConfig failed: %v", err)
	}
	if !strings.Contains(out.String(), configPath) {
		t.Errorf("output should name the written file: %q", out.String())
	}

	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Format.TimestampLayout != "2006-01-02 15:04" {
		t.Errorf("TimestampLayout = %q", cfg.Format.TimestampLayout)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != logPath {
		t.Errorf("Sources = %v", cfg.Sources)
	}
}

func TestWriteStarterConfig_NoOverwrite(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "existing.yaml", "existing content")

	err := writeStarterConfig(&strings.Builder{}, mockResult("2006-01-02 15:04"), "/data/activity.txt", configPath)
	if err == nil {
		t.Fatal("Expected error when file exists, got nil")
	}
	if !strings.Contains(err.Error(), "will not overwrite") {
		t.Errorf("Expected 'will not overwrite' error, got: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing content" {
		t.Error("existing file was modified")
	}
}

func TestWriteStarterConfig_NoMatch(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sleeplog.yaml")

	err := writeStarterConfig(&strings.Builder{}, &detector.DetectionResult{}, "/data/activity.txt", configPath)
	if err == nil {
		t.Fatal("Expected error without a detected layout")
	}
	if _, statErr := os.Stat(configPath); !os.IsNotExist(statErr) {
		t.Error("config file should not be written")
	}
}

func TestRunDetect_Text(t *testing.T) {
	logPath := writeFile(t, t.TempDir(), "activity.txt", sampleLog)

	out, err := execute(t, []string{logPath}, NewDetectCommand)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	for _, want := range []string{
		"Records sampled: 6",
		"Detected Layout: ISO date, 12-hour clock",
		"Confidence: 100.0%",
		`timestamp_layout: "2006-01-02 3:04 PM"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDetect_NoMatch(t *testing.T) {
	logPath := writeFile(t, t.TempDir(), "activity.txt", "sometime yesterday\nType: Sleep\n====================\n")

	out, err := execute(t, []string{logPath}, NewDetectCommand)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "No timestamp layout detected.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunDetect_JSON(t *testing.T) {
	logPath := writeFile(t, t.TempDir(), "activity.txt", `05/06/2020 11:00 PM ~ 05/07/2020 06:00 AM
Type: Night sleep
====================
`)

	out, err := execute(t, []string{"-o", "json", "--all", logPath}, NewDetectCommand)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var result JSONOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("Matches = %d, want both date orderings", len(result.Matches))
	}
	if !result.Matches[0].Ambiguous || result.AmbiguityNote == "" {
		t.Error("Expected ambiguous match with a note")
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	_, err := execute(t, []string{"/nonexistent/activity.txt"}, NewDetectCommand)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestRunDetect_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "activity.txt", sampleLog)
	configPath := filepath.Join(dir, "sleeplog.yaml")

	if _, err := execute(t, []string{"-w", configPath, logPath}, NewDetectCommand); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	// The generated config drives a full analysis
	out, err := execute(t, []string{"--config", configPath, "--quiet"}, NewAnalyzeCommand)
	if err != nil {
		t.Fatalf("analyze with generated config failed: %v", err)
	}
	if !strings.Contains(out, "6 records from 1 files") {
		t.Errorf("unexpected output: %q", out)
	}
}
