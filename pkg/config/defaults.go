package config

import (
	"os"
	"strings"
	"time"

	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/parser"
)

// Default values for configuration.
const (
	DefaultTimezone      = "UTC"
	DefaultMaxNapMinutes = 360
	DefaultSleepDayShift = 8 * time.Hour
	DefaultHistogramBins = 10
)

// Environment variable names.
const (
	EnvSources  = "SLEEPLOG_SOURCES"
	EnvTimezone = "SLEEPLOG_TIMEZONE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sources:  []string{parser.DefaultGlobPattern},
		Timezone: DefaultTimezone,
		Format: FormatConfig{
			TimestampLayout:    parser.DefaultTimestampLayout,
			Delimiter:          parser.DefaultDelimiter,
			DurationUnitSuffix: parser.DefaultDurationUnitSuffix,
			AmountUnitSuffix:   parser.DefaultAmountUnitSuffix,
		},
		Cleaning: CleaningConfig{
			MaxNapMinutes:  DefaultMaxNapMinutes,
			SleepDayShift:  DefaultSleepDayShift,
			ExclusionDates: []activity.Date{},
		},
		Analysis: AnalysisConfig{
			HistogramBins: DefaultHistogramBins,
		},
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvironmentOverrides() {
	if sources := os.Getenv(EnvSources); sources != "" {
		var list []string
		for _, s := range strings.Split(sources, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		c.Sources = list
	}

	if tz := os.Getenv(EnvTimezone); tz != "" {
		c.Timezone = tz
	}
}
