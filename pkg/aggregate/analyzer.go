package aggregate

import (
	"time"

	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/cleaning"
)

// DefaultBins is the default histogram bin count.
const DefaultBins = 10

// Analyzer derives daily statistics and plot data from a cleaned partition.
type Analyzer struct {
	bins int
	now  func() time.Time
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithBins sets the histogram bin count.
func WithBins(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.bins = n
		}
	}
}

// WithClock overrides the clock used for Metadata.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		bins: DefaultBins,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// metric extracts one value from a day's statistics. ok is false when the
// value is undefined for that day.
type metric struct {
	label string
	value func(DayStats) (float64, bool)
}

var (
	maxNap = metric{"Max Nap Length", func(s DayStats) (float64, bool) { return hours(s.Max), s.HasMax() }}
	numNap = metric{"Num Naps", func(s DayStats) (float64, bool) { return float64(s.Count), true }}
	totNap = metric{"Total Nap", func(s DayStats) (float64, bool) { return hours(s.Total), true }}

	totSleep = metric{"Total Sleep", func(s DayStats) (float64, bool) { return hours(s.Total), true }}
	maxSleep = metric{"Max Sleep Length", func(s DayStats) (float64, bool) { return hours(s.Max), s.HasMax() }}
	numSleep = metric{"Num Sleeps", func(s DayStats) (float64, bool) { return float64(s.Count), true }}
)

// scatterPairs are the nap/sleep correlations reported, nap metric on X.
var scatterPairs = []struct{ x, y metric }{
	{maxNap, totSleep},
	{numNap, totSleep},
	{maxNap, maxSleep},
	{maxNap, numSleep},
	{totNap, totSleep},
	{totNap, numSleep},
}

// Analyze computes the daily statistics, histograms and scatter data.
func (a *Analyzer) Analyze(part cleaning.Partition) *Result {
	naps := Daily(part.Naps)
	sleeps := Daily(part.Sleeps)

	result := &Result{
		Naps:   naps,
		Sleeps: sleeps,
		Histograms: []Histogram{
			NewHistogram("Individual sleep durations", entryHours(part.Sleeps), a.bins),
			NewHistogram("Individual nap durations", entryHours(part.Naps), a.bins),
			NewHistogram("Total sleep durations", totalHours(sleeps), a.bins),
			NewHistogram("Total nap durations", totalHours(naps), a.bins),
		},
		DailyNapHours:   timeline(naps),
		DailySleepHours: timeline(sleeps),
		Metadata: Metadata{
			NapRecords:   len(part.Naps),
			SleepRecords: len(part.Sleeps),
			GeneratedAt:  a.now(),
		},
	}

	for _, pair := range scatterPairs {
		result.Scatters = append(result.Scatters, scatter(naps, sleeps, pair.x, pair.y))
	}

	if first, last, ok := span(naps, sleeps); ok {
		result.Metadata.FirstDay = first.String()
		result.Metadata.LastDay = last.String()
	}

	return result
}

// scatter pairs x from naps with y from sleeps on days present in both.
func scatter(naps, sleeps Series, x, y metric) Scatter {
	sleepByDay := make(map[activity.Date]DayStats, len(sleeps))
	for _, s := range sleeps {
		sleepByDay[s.Day] = s
	}

	sc := Scatter{
		Title:  x.label + " vs " + y.label,
		XLabel: x.label,
		YLabel: y.label,
	}
	for _, n := range naps {
		s, ok := sleepByDay[n.Day]
		if !ok {
			continue
		}
		xv, okx := x.value(n)
		yv, oky := y.value(s)
		if !okx || !oky {
			continue
		}
		sc.Points = append(sc.Points, Point{Day: n.Day, X: xv, Y: yv})
	}

	if fit, ok := Fit(sc.Points); ok {
		sc.Fit = fit
	}
	return sc
}

func span(series ...Series) (first, last activity.Date, ok bool) {
	for _, s := range series {
		if len(s) == 0 {
			continue
		}
		if !ok || s[0].Day.Before(first) {
			first = s[0].Day
		}
		if !ok || last.Before(s[len(s)-1].Day) {
			last = s[len(s)-1].Day
		}
		ok = true
	}
	return first, last, ok
}

func hours(minutes float64) float64 {
	return minutes / 60
}

func entryHours(entries []cleaning.Entry) []float64 {
	out := make([]float64, len(entries))
	for i := range entries {
		out[i] = hours(entries[i].Record.Duration)
	}
	return out
}

func totalHours(s Series) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = hours(s[i].Total)
	}
	return out
}

func timeline(s Series) []TimePoint {
	out := make([]TimePoint, len(s))
	for i := range s {
		out[i] = TimePoint{Day: s[i].Day, Value: hours(s[i].Total)}
	}
	return out
}
