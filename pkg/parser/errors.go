package parser

import "fmt"

// FormatError reports a line or value that does not match the expected
// grammar: a malformed timestamp line, a field line without a separator, or
// a unit-suffixed value without a numeric prefix.
type FormatError struct {
	// Source and Line locate the offending line. Zero when the error came
	// from a parser used without file context.
	Source string
	Line   int

	// Value is the offending raw token or value.
	Value string

	// Expected describes the expected format.
	Expected string

	Err error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("expected %s, but found %q", e.Expected, e.Value)
	if e.Source != "" {
		msg = fmt.Sprintf("%s:%d: %s", e.Source, e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// StructuralError reports a violation of the record layout: a field line
// where a record cannot be open, an empty record, or a record cut off by
// the end of the file.
type StructuralError struct {
	Source string
	Line   int
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
}

// locate fills in file context on parser errors that were raised without it.
func locate(err error, source string, line int) error {
	switch e := err.(type) {
	case *FormatError:
		if e.Source == "" {
			e.Source = source
			e.Line = line
		}
	case *StructuralError:
		if e.Source == "" {
			e.Source = source
			if e.Line == 0 {
				e.Line = line
			}
		}
	}
	return err
}
