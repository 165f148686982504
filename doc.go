// Package vetsyn maintains time-indexed veterinary syndromic
// surveillance containers and grows them incrementally as new raw event
// records arrive.
//
// 🚀 What is vetsyn?
//
//	A library that keeps aligned per-group event-count matrices and
//	their derived detection layers consistent through every update:
//		• Calendar grids: gap-free daily or ISO-week time axes
//		• Aggregation: raw (identifier, group, date) records → dense counts,
//		  deduplicated per subject and period
//		• Weekday redistribution: fold weekend submissions into workdays
//		• Granularity roll-up: daily data into ISO-week containers
//		• Merging: splice new blocks onto retained history, growing the
//		  group set with zero/missing backfill across all five layers
//		• Persistence: sentinel-preserving JSON snapshots in SQLite
//
// ✨ Why choose vetsyn?
//
//   - Validated by construction – every container passes full invariant
//     checks before it is returned
//   - Immutable updates – an update produces a new container; a failed
//     one leaves the old container untouched
//   - Pure batch transforms – no goroutines, no hidden state
//
// Under the hood, everything is organized under six subpackages:
//
//	timegrid/  — calendar grids, ISO-week arithmetic & date parsing
//	matrix/    — dense count matrices & detection-layer cubes
//	aggregate/ — record counting, weekday redistribution, weekly roll-up
//	series/    — the surveillance container & its merge engine
//	persist/   — snapshot codec & SQLite store
//	config/    — YAML update profiles & CSV record ingestion
//
// Quick example:
//
//	s, _ := series.FromRecords(records, series.DefaultBuildOptions())
//	s, _ = s.Update(todays, series.UpdateOptions{
//		DateLayout:   timegrid.DayLayout,
//		AddNewGroups: true,
//	})
package vetsyn
