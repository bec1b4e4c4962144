// Package output provides formatting and output generation for parsed and
// analyzed activity logs.
package output

import (
	"time"

	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/aggregate"
	"github.com/ccollicutt/sleeplog/pkg/cleaning"
)

// Report is the complete output of a run.
type Report struct {
	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// Records holds the parsed records when they are part of the output.
	Records activity.Dataset `json:"records,omitempty"`

	// Cleaning lists the effect of each cleaning pass.
	Cleaning []cleaning.Event `json:"cleaning,omitempty"`

	// Analysis holds the daily statistics and plot data.
	Analysis *aggregate.Result `json:"analysis,omitempty"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate counts.
type Summary struct {
	// Files is the number of activity logs read.
	Files int `json:"files"`

	// Records is the number of records parsed.
	Records int `json:"records"`

	// ByType counts parsed records per normalized type. Records without a
	// type are counted under "".
	ByType map[string]int `json:"by_type"`

	// Naps and Sleeps count the records kept after cleaning.
	Naps   int `json:"naps"`
	Sleeps int `json:"sleeps"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the activity logs that were read.
	Sources []string `json:"sources"`

	// AnalyzedAt is when the run finished.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report for a parsed dataset.
func NewReport(data activity.Dataset, sources []string, configFile string) *Report {
	return &Report{
		Summary: Summary{
			Files:   len(sources),
			Records: len(data),
			ByType:  data.Counts(),
		},
		Metadata: Metadata{
			ConfigFile: configFile,
			Sources:    sources,
		},
	}
}

// WithRecords attaches the records themselves.
func (r *Report) WithRecords(data activity.Dataset) *Report {
	r.Records = data
	return r
}

// WithCleaning attaches cleaning events and the cleaned partition sizes.
func (r *Report) WithCleaning(events []cleaning.Event, part cleaning.Partition) *Report {
	r.Cleaning = events
	r.Summary.Naps = len(part.Naps)
	r.Summary.Sleeps = len(part.Sleeps)
	return r
}

// WithAnalysis attaches aggregation results.
func (r *Report) WithAnalysis(result *aggregate.Result) *Report {
	r.Analysis = result
	return r
}

// Finish stamps the run timing.
func (r *Report) Finish(started, finished time.Time) *Report {
	r.Metadata.AnalyzedAt = finished
	r.Metadata.Duration = finished.Sub(started)
	return r
}
