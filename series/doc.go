// Package series maintains the surveillance time-series container: a
// calendar-aligned count matrix per monitored group plus the derived
// detection layers (baseline, alarms, upper and lower control limits).
//
// A Series is created once, either from a pre-aligned count matrix (New)
// or from raw event records (FromRecords), and is then only ever
// replaced wholesale: Update consumes the existing container and a batch
// of raw records and produces a new, fully validated container. No call
// mutates a Series in place, so callers may freely share read access; a
// superseded container simply stops being "the current series" by the
// caller's own bookkeeping.
//
// The update pipeline realigns new data against the existing container:
// records are aggregated onto a gap-free calendar block, optionally
// weekday-redistributed (daily series) or rolled up into ISO weeks
// (weekly series fed daily data), and spliced onto the retained history.
// Groups unseen so far may grow the column set, with zero backfill for
// counts and baseline and the missing-value marker for detection
// layers. Detection layers for freshly added time points are always
// entirely missing: scoring them is the detection algorithms' job, not
// this package's.
//
// Layer presence is explicit: a nil baseline or alarm layer means "never
// computed" and stays nil across updates until a caller attaches a
// populated layer via With.
package series
