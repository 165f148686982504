// Package timegrid builds gap-free calendar grids for surveillance
// time series.
//
// The timegrid package provides:
//
//   - Grid: an ordered, gap-free sequence of time points between two
//     bounds, at daily or ISO-week granularity, with derived attributes
//     per point (weekday, ISO week and year, canonical week start).
//   - Week arithmetic: canonical Monday-anchored week starts and
//     "YYYY-Www" labels, plus parsing of both day-level layouts and the
//     reserved ISOWeek layout.
//   - Row slicing, concatenation and deletion helpers that keep a grid
//     co-indexed with the count matrices built on top of it.
//
// A Grid is immutable once built: every helper returns a new Grid and
// leaves its receiver untouched.
//
// See the examples in this package and series for usage patterns.
package timegrid
