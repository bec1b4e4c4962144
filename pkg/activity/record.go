// Package activity defines the typed records produced by parsing an activity log.
package activity

import (
	"encoding/json"
	"strconv"
	"time"
)

// Field names with dedicated handling.
const (
	FieldStart    = "start"
	FieldEnd      = "end"
	FieldDuration = "duration"
	FieldType     = "type"
	FieldAmount   = "amount"
)

// Value is a sanitized field value: either text or a number.
type Value struct {
	Text     string
	Number   float64
	IsNumber bool
}

// TextValue returns a text Value.
func TextValue(s string) Value {
	return Value{Text: s}
}

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value {
	return Value{Number: f, IsNumber: true}
}

// String formats the value for display.
func (v Value) String() string {
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNumber {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON decodes a JSON number or string.
func (v *Value) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = NumberValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = TextValue(s)
	return nil
}

// Record is one finalized activity entry.
type Record struct {
	// Start and End bound the activity. End equals Start for point entries.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Duration is in minutes.
	Duration float64 `json:"duration"`

	// HasDuration is set once Duration holds a supplied or derived value.
	HasDuration bool `json:"-"`

	// Category is the normalized type field. Zero when the record has none.
	Category Category `json:"type"`

	// Fields holds every other sanitized key/value pair.
	Fields map[string]Value `json:"fields,omitempty"`

	// Source is the file path this record came from.
	Source string `json:"source,omitempty"`

	// Line is the 1-based line number of the record's timestamp line.
	Line int `json:"line,omitempty"`
}

// Field returns a sanitized field value by canonical key.
func (r *Record) Field(key string) (Value, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Amount returns the numeric amount field, if present.
func (r *Record) Amount() (float64, bool) {
	v, ok := r.Fields[FieldAmount]
	if !ok || !v.IsNumber {
		return 0, false
	}
	return v.Number, true
}

// Elapsed returns End - Start in minutes.
func (r *Record) Elapsed() float64 {
	return r.End.Sub(r.Start).Seconds() / 60
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r.Fields != nil {
		fields := make(map[string]Value, len(r.Fields))
		for k, v := range r.Fields {
			fields[k] = v
		}
		r.Fields = fields
	}
	return r
}
