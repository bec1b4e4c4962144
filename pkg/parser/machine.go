package parser

import (
	"fmt"

	"github.com/ccollicutt/sleeplog/pkg/activity"
)

// Phase is the position of the record state machine.
type Phase int

const (
	// AwaitingStart expects a timestamp line opening a new record.
	AwaitingStart Phase = iota
	// AccumulatingFields expects field lines or the closing delimiter.
	AccumulatingFields
)

func (p Phase) String() string {
	if p == AccumulatingFields {
		return "accumulating_fields"
	}
	return "awaiting_start"
}

// State is the record state machine's state. The zero value awaits a start
// line. States are values: Transition never mutates the state it is given.
type State struct {
	Phase Phase

	// pending is the record being accumulated.
	pending activity.Record
}

// Pending returns a copy of the record under construction.
func (s State) Pending() activity.Record {
	return s.pending.Clone()
}

// Grammar holds the line-level parsers the state machine dispatches to.
type Grammar struct {
	Timestamps *TimestampParser
	Sanitizer  *Sanitizer
	Delimiter  string
}

// NewGrammar returns a Grammar using the default format.
func NewGrammar() *Grammar {
	return &Grammar{
		Timestamps: NewTimestampParser(DefaultTimestampLayout, nil),
		Sanitizer:  NewSanitizer(DefaultDurationUnitSuffix, DefaultAmountUnitSuffix),
		Delimiter:  DefaultDelimiter,
	}
}

// Transition consumes one line. It returns the next state and, when the line
// closes a record, the finalized record.
func (g *Grammar) Transition(st State, ln Line) (State, *activity.Record, error) {
	switch st.Phase {
	case AwaitingStart:
		return g.start(ln)
	case AccumulatingFields:
		return g.accumulate(st, ln)
	default:
		return st, nil, fmt.Errorf("unknown parser phase %d", st.Phase)
	}
}

// End checks the final state once the input is exhausted.
func (g *Grammar) End(st State) error {
	if st.Phase == AccumulatingFields {
		return &StructuralError{
			Source: st.pending.Source,
			Line:   st.pending.Line,
			Reason: "record not terminated by a delimiter line before end of file",
		}
	}
	return nil
}

func (g *Grammar) start(ln Line) (State, *activity.Record, error) {
	if ln.Content == g.Delimiter {
		return State{}, nil, &StructuralError{
			Source: ln.Source,
			Line:   ln.LineNum,
			Reason: "empty record: delimiter line where a timestamp line was expected",
		}
	}

	start, end, err := g.Timestamps.Parse(ln.Content)
	if err != nil {
		return State{}, nil, locate(err, ln.Source, ln.LineNum)
	}

	return State{
		Phase: AccumulatingFields,
		pending: activity.Record{
			Start:  start,
			End:    end,
			Source: ln.Source,
			Line:   ln.LineNum,
		},
	}, nil, nil
}

func (g *Grammar) accumulate(st State, ln Line) (State, *activity.Record, error) {
	key, value, end, err := ParseField(ln.Content, g.Delimiter)
	if err != nil {
		return st, nil, locate(err, ln.Source, ln.LineNum)
	}

	rec := st.pending.Clone()

	if end {
		Finalize(&rec)
		return State{}, &rec, nil
	}

	field, err := g.Sanitizer.Sanitize(key, value)
	if err != nil {
		return st, nil, locate(err, ln.Source, ln.LineNum)
	}

	switch {
	case field.Key == activity.FieldStart || field.Key == activity.FieldEnd:
		return st, nil, &StructuralError{
			Source: ln.Source,
			Line:   ln.LineNum,
			Reason: fmt.Sprintf("field %q is reserved for the timestamp line", field.Key),
		}
	case field.IsCategory:
		rec.Category = field.Category
	case field.Key == activity.FieldDuration:
		rec.Duration = field.Value.Number
		rec.HasDuration = true
	default:
		if rec.Fields == nil {
			rec.Fields = make(map[string]activity.Value)
		}
		rec.Fields[field.Key] = field.Value
	}

	return State{Phase: AccumulatingFields, pending: rec}, nil, nil
}
