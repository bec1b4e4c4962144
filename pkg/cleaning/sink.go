package cleaning

import (
	"go.uber.org/zap"

	"github.com/ccollicutt/sleeplog/pkg/activity"
)

// Reason names why a record was dropped.
type Reason string

const (
	ReasonTooLong      Reason = "too_long"
	ReasonZeroDuration Reason = "zero_duration"
	ReasonExcludedDate Reason = "excluded_date"
)

// Event reports the effect of one cleaning pass.
type Event struct {
	// Kind is the category that was cleaned.
	Kind activity.Kind `json:"-"`

	// Stage is the category name, "naps" or "sleeps".
	Stage string `json:"stage"`

	Before int `json:"before"`
	After  int `json:"after"`

	// Removed counts dropped records per reason.
	Removed map[Reason]int `json:"removed,omitempty"`
}

// Sink receives cleaning events.
type Sink interface {
	Record(Event)
}

// NopSink discards events.
type NopSink struct{}

// Record implements Sink.
func (NopSink) Record(Event) {}

// Collector keeps every event it receives, in order.
type Collector struct {
	Events []Event
}

// Record implements Sink.
func (c *Collector) Record(e Event) {
	c.Events = append(c.Events, e)
}

// ZapSink writes events as structured log entries.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink logging to logger at info level.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// Record implements Sink.
func (s *ZapSink) Record(e Event) {
	fields := []zap.Field{
		zap.Int("before", e.Before),
		zap.Int("after", e.After),
	}
	for _, r := range []Reason{ReasonTooLong, ReasonZeroDuration, ReasonExcludedDate} {
		if n, ok := e.Removed[r]; ok {
			fields = append(fields, zap.Int("removed_"+string(r), n))
		}
	}
	s.logger.Info("cleaning: "+e.Stage, fields...)
}

// MultiSink fans events out to several sinks.
type MultiSink []Sink

// Record implements Sink.
func (m MultiSink) Record(e Event) {
	for _, s := range m {
		s.Record(e)
	}
}
