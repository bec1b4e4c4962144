package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// layoutProbe is formatted with a candidate layout and parsed back to check
// that the layout round-trips.
var layoutProbe = time.Date(2020, time.January, 23, 23, 35, 0, 0, time.UTC)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and loads the time zone.
func Validate(cfg *Config) error {
	if err := validation.ValidateStruct(cfg,
		validation.Field(&cfg.Sources, validation.Required, validation.Each(validation.Required)),
		validation.Field(&cfg.Timezone, validation.Required),
	); err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	cfg.location = loc

	if err := cfg.Format.Validate(); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if err := cfg.Cleaning.Validate(); err != nil {
		return fmt.Errorf("cleaning: %w", err)
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	return nil
}

// Validate validates the format configuration.
func (c *FormatConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.TimestampLayout, validation.Required, validation.By(roundTrips)),
		validation.Field(&c.Delimiter, validation.Required),
		validation.Field(&c.DurationUnitSuffix, validation.Required),
		validation.Field(&c.AmountUnitSuffix, validation.Required),
	); err != nil {
		return err
	}

	if c.DurationUnitSuffix == c.AmountUnitSuffix {
		return errors.New("duration_unit_suffix and amount_unit_suffix must differ")
	}
	return nil
}

// roundTrips checks that a time layout can parse what it formats.
func roundTrips(value interface{}) error {
	layout, _ := value.(string)
	parsed, err := time.Parse(layout, layoutProbe.Format(layout))
	if err != nil {
		return fmt.Errorf("layout %q cannot parse its own output: %w", layout, err)
	}
	if !parsed.Equal(layoutProbe) {
		return fmt.Errorf("layout %q must include date, hour and minute", layout)
	}
	return nil
}

// Validate validates the cleaning configuration.
func (c *CleaningConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxNapMinutes, validation.Required, validation.Min(1.0)),
		validation.Field(&c.SleepDayShift, validation.Min(time.Duration(0)), validation.Max(24*time.Hour)),
	)
}

// Validate validates the analysis configuration.
func (c *AnalysisConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HistogramBins, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}
