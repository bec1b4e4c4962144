// Package detector identifies the timestamp layout an activity log was
// exported with.
package detector

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/ccollicutt/sleeplog/pkg/parser"
)

// DetectionResult holds the result of analyzing an activity log.
type DetectionResult struct {
	Matches       []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines  int           // Number of record-start lines sampled
	ParsedLines   int           // Number of lines the best match parsed
	AmbiguityNote string        // Warning about date ordering if applicable
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *TimestampFormat
	Confidence float64   // 0.0 to 1.0 (fraction of lines matched)
	MatchCount int       // Number of lines that matched
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Start time parsed from the sample
}

// Detector samples record-start lines and tests them against candidate
// layouts.
type Detector struct {
	formats    []*TimestampFormat
	sampleSize int
	delimiter  string
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of record-start lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithDelimiter sets the record delimiter line.
func WithDelimiter(delim string) Option {
	return func(d *Detector) {
		if delim != "" {
			d.delimiter = delim
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
		delimiter:  parser.DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples an activity log and returns detected formats.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	src, err := parser.OpenTokenizer(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	lines, err := d.sample(ctx, src)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines tests record-start lines such as
// "2020-01-23 11:00 PM ~ 2020-01-24 06:00 AM" against every format. A line
// matches a format only when both halves of a range parse.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	if len(lines) == 0 {
		return result
	}

	for _, format := range d.formats {
		ts := parser.NewTimestampParser(format.Layout, time.UTC)

		var match *FormatMatch
		for _, line := range lines {
			start, _, err := ts.Parse(line)
			if err != nil {
				continue
			}
			if match == nil {
				match = &FormatMatch{
					Format:     format,
					SampleLine: line,
					ParsedTime: start,
				}
			}
			match.MatchCount++
		}

		if match != nil {
			match.Confidence = float64(match.MatchCount) / float64(len(lines))
			result.Matches = append(result.Matches, *match)
		}
	}

	// Stable keeps DefaultFormats order among equal confidence
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
	}

	if best := result.BestMatch(); best != nil && best.Format.Ambiguous && result.tied() {
		result.AmbiguityNote = "Every sampled date fits both MM/DD and DD/MM ordering. " +
			"Verify the layout matches your export. " +
			"For day-first dates, use timestamp_layout: \"02/01/2006 3:04 PM\""
	}

	return result
}

// tied reports whether another ambiguous format matched as often as the best.
func (r *DetectionResult) tied() bool {
	for _, m := range r.Matches[1:] {
		if m.Format.Ambiguous && m.MatchCount == r.Matches[0].MatchCount {
			return true
		}
	}
	return false
}

// sample collects record-start lines: the first line, and every line after
// a delimiter.
func (d *Detector) sample(ctx context.Context, src parser.LineSource) ([]string, error) {
	var lines []string
	expectStart := true

	for len(lines) < d.sampleSize {
		ln, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch {
		case ln.Content == d.delimiter:
			expectStart = true
		case expectStart:
			lines = append(lines, ln.Content)
			expectStart = false
		}
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
