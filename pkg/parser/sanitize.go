package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ccollicutt/sleeplog/pkg/activity"
)

// Field is a sanitized key/value pair ready to merge into a record.
type Field struct {
	Key   string
	Value activity.Value

	// Category is set instead of Value for the type field.
	Category   activity.Category
	IsCategory bool
}

// Sanitizer normalizes raw field keys and values.
type Sanitizer struct {
	durationSuffix string
	amountSuffix   string
	amountMarker   string
}

// NewSanitizer creates a Sanitizer for the given unit suffixes, e.g.
// " (min)" and " (ml)". A value is treated as an amount when it contains the
// unit name inside the amount suffix's parentheses.
func NewSanitizer(durationSuffix, amountSuffix string) *Sanitizer {
	return &Sanitizer{
		durationSuffix: durationSuffix,
		amountSuffix:   amountSuffix,
		amountMarker:   unitName(amountSuffix),
	}
}

// unitName extracts "ml" from " (ml)".
func unitName(suffix string) string {
	return strings.Trim(strings.TrimSpace(suffix), "()")
}

// CanonicalKey trims and lower-cases a key and replaces spaces with
// underscores.
func CanonicalKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, " ", "_")
}

// Sanitize normalizes one raw field. The type field becomes a category,
// the duration field becomes minutes, and any other value carrying the
// amount unit becomes a number.
func (s *Sanitizer) Sanitize(rawKey, rawValue string) (Field, error) {
	key := CanonicalKey(rawKey)
	value := strings.TrimSpace(rawValue)

	switch {
	case key == activity.FieldType:
		return Field{Key: key, Category: activity.ParseCategory(value), IsCategory: true}, nil

	case key == activity.FieldDuration:
		minutes, err := parseUnit(value, s.durationSuffix)
		if err != nil {
			return Field{}, err
		}
		if minutes < 0 {
			return Field{}, &FormatError{
				Value:    rawValue,
				Expected: "a non-negative duration",
			}
		}
		return Field{Key: key, Value: activity.NumberValue(minutes)}, nil

	case s.amountMarker != "" && strings.Contains(value, s.amountMarker):
		amount, err := parseUnit(value, s.amountSuffix)
		if err != nil {
			return Field{}, err
		}
		return Field{Key: key, Value: activity.NumberValue(amount)}, nil
	}

	return Field{Key: key, Value: activity.TextValue(value)}, nil
}

// parseUnit parses "<number><suffix>..." and returns the number.
func parseUnit(value, suffix string) (float64, error) {
	prefix, _, _ := strings.Cut(value, suffix)
	f, err := strconv.ParseFloat(strings.TrimSpace(prefix), 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = fmt.Errorf("non-finite value %v", f)
	}
	if err != nil {
		return 0, &FormatError{
			Value:    value,
			Expected: fmt.Sprintf("a value formatted as `#%s`", suffix),
			Err:      err,
		}
	}
	return f, nil
}
