package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tokenizer implements LineSource over a single reader. Blank lines are
// skipped; only the end of the input stops the stream.
type Tokenizer struct {
	scanner *bufio.Scanner
	closer  io.Closer
	source  string
	line    int
}

// NewTokenizer creates a Tokenizer reading from r. source names the input in
// returned lines and errors.
func NewTokenizer(r io.Reader, source string) *Tokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	t := &Tokenizer{
		scanner: scanner,
		source:  source,
	}
	if c, ok := r.(io.Closer); ok {
		t.closer = c
	}
	return t
}

// OpenTokenizer opens path and returns a Tokenizer over its contents.
// The caller must Close it.
func OpenTokenizer(path string) (*Tokenizer, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening activity log %s: %w", path, err)
	}
	return NewTokenizer(f, path), nil
}

// Next returns the next non-empty line.
// Returns io.EOF when the input has been exhausted.
func (t *Tokenizer) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", t.source, err)
			}
			return nil, io.EOF
		}
		t.line++

		content := strings.TrimSpace(t.scanner.Text())
		if content == "" {
			continue
		}

		return &Line{
			Content: content,
			Source:  t.source,
			LineNum: t.line,
		}, nil
	}
}

// Close releases the underlying reader if it is closable.
func (t *Tokenizer) Close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}
