// Package aggregate resamples cleaned sleep records into daily statistics
// and derives the distributions and correlations plotted from them.
package aggregate

import (
	"time"

	"github.com/ccollicutt/sleeplog/pkg/activity"
)

// DayStats summarizes one category's durations on one day, in minutes.
type DayStats struct {
	Day   activity.Date `json:"day"`
	Total float64       `json:"total"`
	Max   float64       `json:"max"`
	Count int           `json:"count"`
}

// HasMax reports whether Max is meaningful, i.e. the day had records.
func (s DayStats) HasMax() bool {
	return s.Count > 0
}

// Series is a run of consecutive days.
type Series []DayStats

// Histogram counts values in equal-width bins. Edges has len(Counts)+1
// entries; the last bin includes its upper edge.
type Histogram struct {
	Title  string    `json:"title"`
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Point is one scatter point.
type Point struct {
	Day activity.Date `json:"day"`
	X   float64       `json:"x"`
	Y   float64       `json:"y"`
}

// Regression is an ordinary least-squares line fit.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`

	// R is the Pearson correlation coefficient. Zero when Y is constant.
	R float64 `json:"r"`
	N int     `json:"n"`
}

// Scatter is a pair of daily metrics with its regression overlay.
type Scatter struct {
	Title  string      `json:"title"`
	XLabel string      `json:"x_label"`
	YLabel string      `json:"y_label"`
	Points []Point     `json:"points"`
	Fit    *Regression `json:"fit,omitempty"`
}

// TimePoint is one value of a daily time series.
type TimePoint struct {
	Day   activity.Date `json:"day"`
	Value float64       `json:"value"`
}

// Result contains everything derived from one cleaned partition.
type Result struct {
	// Naps and Sleeps are the daily statistics per category.
	Naps   Series `json:"naps"`
	Sleeps Series `json:"sleeps"`

	// Histograms of individual and daily total durations, in hours.
	Histograms []Histogram `json:"histograms"`

	// DailyNapHours and DailySleepHours are daily totals over time.
	DailyNapHours   []TimePoint `json:"daily_nap_hours"`
	DailySleepHours []TimePoint `json:"daily_sleep_hours"`

	// Scatters correlate nap behavior with the same day's sleep.
	Scatters []Scatter `json:"scatters"`

	Metadata Metadata `json:"metadata"`
}

// Metadata provides context about the aggregation run.
type Metadata struct {
	NapRecords   int       `json:"nap_records"`
	SleepRecords int       `json:"sleep_records"`
	FirstDay     string    `json:"first_day,omitempty"`
	LastDay      string    `json:"last_day,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}
