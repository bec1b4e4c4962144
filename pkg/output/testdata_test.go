package output

import (
	"time"

	"github.com/ccollicutt/sleeplog/pkg/activity"
	"github.com/ccollicutt/sleeplog/pkg/aggregate"
	"github.com/ccollicutt/sleeplog/pkg/cleaning"
	"github.com/ccollicutt/sleeplog/pkg/config"
)

func createTestReport() *Report {
	data := testDataset()

	cfg := config.DefaultConfig().Cleaning
	collector := &cleaning.Collector{}
	part := cleaning.New(&cfg, collector).Apply(data)

	fixed := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	result := aggregate.NewAnalyzer(
		aggregate.WithBins(4),
		aggregate.WithClock(func() time.Time { return fixed }),
	).Analyze(part)

	return NewReport(data, []string{"activity.txt"}, "sleeplog.yaml").
		WithCleaning(collector.Events, part).
		WithAnalysis(result).
		Finish(fixed.Add(-150*time.Millisecond), fixed)
}

func testDataset() activity.Dataset {
	at := func(d, h int) time.Time { return time.Date(2020, time.January, d, h, 0, 0, 0, time.UTC) }
	rec := func(c activity.Category, start time.Time, minutes float64) activity.Record {
		return activity.Record{
			Start:       start,
			End:         start.Add(time.Duration(minutes) * time.Minute),
			Duration:    minutes,
			HasDuration: true,
			Category:    c,
			Source:      "activity.txt",
			Line:        1,
		}
	}

	feed := activity.Record{
		Start:    at(1, 9),
		End:      at(1, 9),
		Category: activity.ParseCategory("feed"),
		Fields:   map[string]activity.Value{activity.FieldAmount: activity.NumberValue(120)},
		Source:   "activity.txt",
		Line:     20,
	}

	return activity.Dataset{
		feed,
		rec(activity.Nap, at(1, 10), 60),
		rec(activity.Nap, at(1, 14), 600),
		rec(activity.Sleep, at(1, 20), 600),
		rec(activity.Nap, at(2, 13), 90),
		rec(activity.Sleep, at(2, 20), 540),
	}
}
