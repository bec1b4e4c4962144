package output

import (
	"context"
	"io"
)

// Formatter renders a sleeplog Report: parsed record counts, cleaning
// events and, when analysis ran, daily nap and sleep statistics.
type Formatter interface {
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name is the value accepted by --output.
	Name() string
}

// FormatOptions controls how much of a Report is rendered.
type FormatOptions struct {
	// Verbose adds per-record fields and sources, regression points and
	// run metadata.
	Verbose bool

	// Quiet reduces output to the record and cleaning summary.
	Quiet bool
}
