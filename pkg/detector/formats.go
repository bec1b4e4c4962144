package detector

// TimestampFormat is a candidate layout for record-start lines.
type TimestampFormat struct {
	Name      string   // Human-readable name
	Layout    string   // Go time layout for parsing
	Examples  []string // Example timestamps
	Ambiguous bool     // True if format has date ordering ambiguity (MM/DD vs DD/MM)
}

// DefaultFormats returns the built-in layouts to detect. Tracking apps
// export dates in the phone's locale, so the common 12- and 24-hour
// variants are all candidates.
func DefaultFormats() []*TimestampFormat {
	return []*TimestampFormat{
		{
			Name:     "ISO date, 12-hour clock",
			Layout:   "2006-01-02 3:04 PM",
			Examples: []string{"2020-01-23 11:00 PM", "2020-01-24 06:00 AM"},
		},
		{
			Name:     "ISO date, 24-hour clock",
			Layout:   "2006-01-02 15:04",
			Examples: []string{"2020-01-23 23:00"},
		},
		{
			Name:     "ISO date, 24-hour clock with seconds",
			Layout:   "2006-01-02 15:04:05",
			Examples: []string{"2020-01-23 23:00:00"},
		},
		{
			Name:      "US date, 12-hour clock",
			Layout:    "01/02/2006 3:04 PM",
			Examples:  []string{"01/23/2020 11:00 PM"},
			Ambiguous: true,
		},
		{
			Name:      "European date, 12-hour clock",
			Layout:    "02/01/2006 3:04 PM",
			Examples:  []string{"23/01/2020 11:00 PM"},
			Ambiguous: true,
		},
		{
			Name:      "US date, 24-hour clock",
			Layout:    "01/02/2006 15:04",
			Examples:  []string{"01/23/2020 23:00"},
			Ambiguous: true,
		},
		{
			Name:      "European date, 24-hour clock",
			Layout:    "02/01/2006 15:04",
			Examples:  []string{"23/01/2020 23:00"},
			Ambiguous: true,
		},
		{
			Name:     "Month name, 12-hour clock",
			Layout:   "Jan 2, 2006 3:04 PM",
			Examples: []string{"Jan 23, 2020 11:00 PM"},
		},
		{
			Name:     "Day first with month name, 24-hour clock",
			Layout:   "2 Jan 2006 15:04",
			Examples: []string{"23 Jan 2020 23:00"},
		},
	}
}
