// Package cleaning assigns sleep records to days and drops implausible or
// manually excluded ones before aggregation.
package cleaning

import (
	"sort"
	"time"

	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/config"
)

// Entry is a record with its day-bucket.
type Entry struct {
	// Bucket is the time used for day assignment. For sleep it is the
	// shifted start; for naps it is the start.
	Bucket time.Time

	// Day is the calendar date of Bucket.
	Day activity.Date

	Record activity.Record
}

// Partition holds the sleep-related records split by category, each sorted
// by bucket time.
type Partition struct {
	Naps   []Entry
	Sleeps []Entry
}

// Policy applies the nap and sleep cleaning rules.
type Policy struct {
	maxNapMinutes float64
	dayShift      time.Duration
	excluded      map[activity.Date]struct{}
	sink          Sink
}

// New creates a Policy from cleaning configuration. A nil sink discards
// events.
func New(cfg *config.CleaningConfig, sink Sink) *Policy {
	if sink == nil {
		sink = NopSink{}
	}
	return &Policy{
		maxNapMinutes: cfg.MaxNapMinutes,
		dayShift:      cfg.SleepDayShift,
		excluded:      cfg.ExcludedDates(),
		sink:          sink,
	}
}

// BucketTime returns the time a record is assigned to a day by. Sleep is
// shifted back so that sleep starting before the shift boundary counts
// toward the previous day. Stored times are not changed.
func (p *Policy) BucketTime(r *activity.Record) time.Time {
	if r.Category.Kind == activity.KindSleep {
		return r.Start.Add(-p.dayShift)
	}
	return r.Start
}

// Partition splits d into naps and sleeps with their day-buckets. Records
// of any other category are left out.
func (p *Policy) Partition(d activity.Dataset) Partition {
	var part Partition
	for i := range d {
		rec := d[i]
		switch rec.Category.Kind {
		case activity.KindNap:
			part.Naps = append(part.Naps, p.entry(rec))
		case activity.KindSleep:
			part.Sleeps = append(part.Sleeps, p.entry(rec))
		case activity.KindNone, activity.KindOther:
		}
	}
	sortEntries(part.Naps)
	sortEntries(part.Sleeps)
	return part
}

func (p *Policy) entry(rec activity.Record) Entry {
	bucket := p.BucketTime(&rec)
	return Entry{
		Bucket: bucket,
		Day:    activity.DateOf(bucket),
		Record: rec.Clone(),
	}
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Bucket.Before(entries[j].Bucket)
	})
}

// Apply partitions d and cleans both halves.
func (p *Policy) Apply(d activity.Dataset) Partition {
	part := p.Partition(d)
	part.Naps = p.CleanNaps(part.Naps)
	part.Sleeps = p.CleanSleeps(part.Sleeps)
	return part
}

// CleanNaps drops naps longer than the configured maximum and entries with
// zero duration.
func (p *Policy) CleanNaps(entries []Entry) []Entry {
	return p.clean("naps", activity.KindNap, entries, func(e *Entry) (Reason, bool) {
		if e.Record.Category.Kind == activity.KindNap && e.Record.Duration > p.maxNapMinutes {
			return ReasonTooLong, true
		}
		if e.Record.Duration == 0 {
			return ReasonZeroDuration, true
		}
		return "", false
	})
}

// CleanSleeps drops sleep whose day-bucket is excluded and entries with
// zero duration.
func (p *Policy) CleanSleeps(entries []Entry) []Entry {
	return p.clean("sleeps", activity.KindSleep, entries, func(e *Entry) (Reason, bool) {
		if _, ok := p.excluded[e.Day]; ok {
			return ReasonExcludedDate, true
		}
		if e.Record.Duration == 0 {
			return ReasonZeroDuration, true
		}
		return "", false
	})
}

func (p *Policy) clean(stage string, kind activity.Kind, entries []Entry, drop func(*Entry) (Reason, bool)) []Entry {
	event := Event{
		Kind:    kind,
		Stage:   stage,
		Before:  len(entries),
		Removed: make(map[Reason]int),
	}

	kept := make([]Entry, 0, len(entries))
	for i := range entries {
		if reason, ok := drop(&entries[i]); ok {
			event.Removed[reason]++
			continue
		}
		kept = append(kept, entries[i])
	}

	event.After = len(kept)
	p.sink.Record(event)
	return kept
}

// Records returns the records of entries in order.
func Records(entries []Entry) activity.Dataset {
	out := make(activity.Dataset, len(entries))
	for i := range entries {
		out[i] = entries[i].Record
	}
	return out
}
