package parser

import (
	"fmt"
	"strings"
	"time"
)

// TimestampParser parses record-start lines of the form START or START ~ END.
// The meridiem is matched case-insensitively, and a zero-padded numeric
// month or day in the layout also accepts a single digit.
type TimestampParser struct {
	layout   string
	lenient  string
	meridiem bool
	location *time.Location
}

// NewTimestampParser creates a parser for the given layout. A nil location
// means UTC.
func NewTimestampParser(layout string, loc *time.Location) *TimestampParser {
	if loc == nil {
		loc = time.UTC
	}
	return &TimestampParser{
		layout:   layout,
		lenient:  unpadDate(layout),
		meridiem: strings.Contains(layout, "PM"),
		location: loc,
	}
}

// unpadDate rewrites the numeric "01"/"02" date elements of layout to their
// unpadded forms, which parse one or two digits.
func unpadDate(layout string) string {
	r := strings.NewReplacer("2006-01-02", "2006-1-2", "01/02/2006", "1/2/2006", "02/01/2006", "2/1/2006")
	return r.Replace(layout)
}

// upperMeridiem upper-cases a trailing "am" or "pm".
func upperMeridiem(token string) string {
	n := len(token)
	if n < 2 {
		return token
	}
	switch suffix := strings.ToUpper(token[n-2:]); suffix {
	case "AM", "PM":
		return token[:n-2] + suffix
	}
	return token
}

func (p *TimestampParser) parseOne(token string) (time.Time, error) {
	if p.meridiem {
		token = upperMeridiem(token)
	}
	ts, err := time.ParseInLocation(p.layout, token, p.location)
	if err != nil && p.lenient != p.layout {
		if alt, altErr := time.ParseInLocation(p.lenient, token, p.location); altErr == nil {
			return alt, nil
		}
	}
	return ts, err
}

// Parse returns the start and end of a record-start line. End equals start
// when the line holds a single timestamp.
func (p *TimestampParser) Parse(line string) (start, end time.Time, err error) {
	parts := strings.Split(line, RangeSeparator)
	if len(parts) > 2 {
		return time.Time{}, time.Time{}, &FormatError{
			Value:    line,
			Expected: p.expected(),
		}
	}

	stamps := make([]time.Time, len(parts))
	for i, part := range parts {
		token := strings.TrimSpace(part)
		ts, err := p.parseOne(token)
		if err != nil {
			return time.Time{}, time.Time{}, &FormatError{
				Value:    token,
				Expected: p.expected(),
				Err:      err,
			}
		}
		stamps[i] = ts
	}

	start, end = stamps[0], stamps[0]
	if len(stamps) == 2 {
		end = stamps[1]
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, &FormatError{
			Value:    line,
			Expected: "an end timestamp not before the start timestamp",
		}
	}

	return start, end, nil
}

func (p *TimestampParser) expected() string {
	return fmt.Sprintf("a timestamp line formatted as `%s [%s %s]`", p.layout, RangeSeparator, p.layout)
}
