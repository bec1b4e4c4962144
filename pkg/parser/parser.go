package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/sleeplog/pkg/activity"
)

// Parser reads activity logs into a Dataset.
type Parser struct {
	grammar *Grammar
	logger  *zap.Logger
}

// Option configures a Parser.
type Option func(*parserOptions)

type parserOptions struct {
	layout         string
	location       *time.Location
	delimiter      string
	durationSuffix string
	amountSuffix   string
	logger         *zap.Logger
}

// WithTimestampLayout sets the Go time layout for record-start lines.
func WithTimestampLayout(layout string) Option {
	return func(o *parserOptions) {
		if layout != "" {
			o.layout = layout
		}
	}
}

// WithLocation sets the time zone timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(o *parserOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithDelimiter sets the end-of-record delimiter line.
func WithDelimiter(delim string) Option {
	return func(o *parserOptions) {
		if delim != "" {
			o.delimiter = delim
		}
	}
}

// WithUnitSuffixes sets the duration and amount unit suffixes.
func WithUnitSuffixes(duration, amount string) Option {
	return func(o *parserOptions) {
		if duration != "" {
			o.durationSuffix = duration
		}
		if amount != "" {
			o.amountSuffix = amount
		}
	}
}

// WithLogger sets the logger used for per-line debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(o *parserOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	o := &parserOptions{
		layout:         DefaultTimestampLayout,
		location:       time.UTC,
		delimiter:      DefaultDelimiter,
		durationSuffix: DefaultDurationUnitSuffix,
		amountSuffix:   DefaultAmountUnitSuffix,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Parser{
		grammar: &Grammar{
			Timestamps: NewTimestampParser(o.layout, o.location),
			Sanitizer:  NewSanitizer(o.durationSuffix, o.amountSuffix),
			Delimiter:  o.delimiter,
		},
		logger: o.logger,
	}
}

// ParseFiles parses each file in order and returns all records in
// file-then-line order. The first error aborts the parse.
func (p *Parser) ParseFiles(ctx context.Context, files []string) (activity.Dataset, error) {
	var data activity.Dataset
	for _, path := range files {
		records, err := p.parseFile(ctx, path)
		if err != nil {
			return nil, err
		}
		data = append(data, records...)
	}
	return data, nil
}

func (p *Parser) parseFile(ctx context.Context, path string) (activity.Dataset, error) {
	src, err := OpenTokenizer(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return p.Parse(ctx, src)
}

// ParseReader parses a single activity log read from r.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader, source string) (activity.Dataset, error) {
	return p.Parse(ctx, NewTokenizer(r, source))
}

// Parse drains src through the record state machine.
func (p *Parser) Parse(ctx context.Context, src LineSource) (activity.Dataset, error) {
	var (
		data  activity.Dataset
		state State
	)

	for {
		ln, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		p.logger.Debug("parsing line",
			zap.String("source", ln.Source),
			zap.Int("line", ln.LineNum),
			zap.String("content", ln.Content))

		next, rec, err := p.grammar.Transition(state, *ln)
		if err != nil {
			return nil, fmt.Errorf("parsing activity log: %w", err)
		}
		if rec != nil {
			data = append(data, *rec)
		}
		state = next
	}

	if err := p.grammar.End(state); err != nil {
		return nil, fmt.Errorf("parsing activity log: %w", err)
	}

	return data, nil
}
