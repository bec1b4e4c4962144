package parser

import "github.com/ccollicutt/sleeplog/pkg/activity"

// Finalize fills in derived fields on a completed record. A missing duration
// is computed from End - Start in minutes; a supplied one is left alone.
// Calling Finalize again has no effect.
func Finalize(r *activity.Record) {
	if r.HasDuration {
		return
	}
	r.Duration = r.Elapsed()
	r.HasDuration = true
}
