package aggregate

import (
	"math"

	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/cleaning"
)

// Daily resamples entries into one DayStats per calendar day from the first
// to the last day-bucket. Days without entries are present with zero totals.
func Daily(entries []cleaning.Entry) Series {
	if len(entries) == 0 {
		return nil
	}

	first, last := entries[0].Day, entries[0].Day
	byDay := make(map[activity.Date]*DayStats)
	for i := range entries {
		e := &entries[i]
		if e.Day.Before(first) {
			first = e.Day
		}
		if last.Before(e.Day) {
			last = e.Day
		}

		s, ok := byDay[e.Day]
		if !ok {
			s = &DayStats{Day: e.Day}
			byDay[e.Day] = s
		}
		d := e.Record.Duration
		s.Total += d
		if s.Count == 0 || d > s.Max {
			s.Max = d
		}
		s.Count++
	}

	var series Series
	for day := first; !last.Before(day); day = day.AddDays(1) {
		if s, ok := byDay[day]; ok {
			series = append(series, *s)
			continue
		}
		series = append(series, DayStats{Day: day})
	}
	return series
}

// NewHistogram bins values into n equal-width bins spanning their range.
// A degenerate range is widened to one unit centered on the value.
func NewHistogram(title string, values []float64, n int) Histogram {
	h := Histogram{Title: title, Counts: make([]int, n), Edges: make([]float64, n+1)}
	if len(values) == 0 || n < 1 {
		return h
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(n)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[n] = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		h.Counts[i]++
	}
	return h
}

// Fit returns the least-squares line through points. It reports false when
// there are fewer than two points or X does not vary.
func Fit(points []Point) (*Regression, bool) {
	n := float64(len(points))
	if len(points) < 2 {
		return nil, false
	}

	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	mx, my := sx/n, sy/n

	var sxx, syy, sxy float64
	for _, p := range points {
		dx, dy := p.X-mx, p.Y-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 {
		return nil, false
	}

	slope := sxy / sxx
	fit := &Regression{
		Slope:     slope,
		Intercept: my - slope*mx,
		N:         len(points),
	}
	if syy > 0 {
		fit.R = sxy / math.Sqrt(sxx*syy)
	}
	return fit, true
}
