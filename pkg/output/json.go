package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter writes a Report as indented JSON. The analysis section is
// the same document the plot plugin reads on stdin.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns "json".
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format encodes the report. In quiet mode only the Summary is written:
// files read, records parsed per type, and naps and sleeps kept after
// cleaning.
func (f *JSONFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	var doc interface{} = report
	if f.opts.Quiet {
		doc = report.Summary
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
