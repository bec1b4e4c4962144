// Package config provides configuration loading and validation for sleeplog.
package config

import (
	"time"

	"github.com/ccollicutt/sleeplog/pkg/activity"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Sources lists activity log paths and glob patterns.
	Sources []string `yaml:"sources"`

	// Timezone is the IANA zone timestamps are written in.
	Timezone string `yaml:"timezone"`

	Format   FormatConfig   `yaml:"format"`
	Cleaning CleaningConfig `yaml:"cleaning"`
	Analysis AnalysisConfig `yaml:"analysis"`

	// location is the loaded Timezone (populated during validation).
	location *time.Location
}

// Location returns the loaded time zone, or UTC before validation.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// FormatConfig describes the activity log text format.
type FormatConfig struct {
	// TimestampLayout is the Go time layout of record-start timestamps.
	// See https://pkg.go.dev/time#pkg-constants for format.
	TimestampLayout string `yaml:"timestamp_layout"`

	// Delimiter is the line that terminates a record.
	Delimiter string `yaml:"delimiter"`

	// DurationUnitSuffix follows the number in duration values.
	DurationUnitSuffix string `yaml:"duration_unit_suffix"`

	// AmountUnitSuffix follows the number in volume values.
	AmountUnitSuffix string `yaml:"amount_unit_suffix"`
}

// CleaningConfig configures the nap and sleep cleaning filters.
type CleaningConfig struct {
	// MaxNapMinutes is the longest plausible nap. Longer naps are dropped.
	MaxNapMinutes float64 `yaml:"max_nap_minutes"`

	// SleepDayShift moves sleep starts back before taking the calendar
	// date, so early-morning sleep counts toward the previous day.
	SleepDayShift time.Duration `yaml:"sleep_day_shift"`

	// ExclusionDates are sleep day-buckets dropped entirely, e.g. days
	// logged as a single block or disrupted by travel.
	ExclusionDates []activity.Date `yaml:"exclusion_dates"`
}

// ExcludedDates returns ExclusionDates as a set.
func (c *CleaningConfig) ExcludedDates() map[activity.Date]struct{} {
	set := make(map[activity.Date]struct{}, len(c.ExclusionDates))
	for _, d := range c.ExclusionDates {
		set[d] = struct{}{}
	}
	return set
}

// AnalysisConfig configures daily aggregation output.
type AnalysisConfig struct {
	// HistogramBins is the number of equal-width histogram bins.
	HistogramBins int `yaml:"histogram_bins"`
}
