package parser

import "context"

// LineSource provides an iterator over the non-empty lines of one input.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next non-empty, trimmed line.
	// Returns io.EOF when the input is exhausted.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}
