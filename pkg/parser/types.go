// Package parser turns activity log files into sanitized, finalized records.
//
// An activity log is a sequence of records:
//
//	2020-01-23 11:00 PM ~ 2020-01-24 06:00 AM
//	Type: Night sleep
//	====================
//
// The first line of a record is a timestamp or timestamp range, followed by
// "key: value" lines, terminated by a delimiter line.
package parser

// Default format constants.
const (
	DefaultTimestampLayout    = "2006-01-02 3:04 PM"
	DefaultDelimiter          = "===================="
	DefaultDurationUnitSuffix = " (min)"
	DefaultAmountUnitSuffix   = " (ml)"
	DefaultGlobPattern        = "activity*.txt"

	// RangeSeparator splits a timestamp line into start and end.
	RangeSeparator = "~"

	// FieldSeparator splits a field line into key and value.
	FieldSeparator = ": "
)

// Line is a trimmed, non-empty line read from an activity log.
type Line struct {
	// Content is the trimmed line text.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}
