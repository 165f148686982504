// Package aggregate turns raw per-event records into dense count blocks
// aligned to a calendar grid.
//
// The aggregate package provides:
//
//   - Count: group filtering, identifier+date deduplication ("one
//     submission per subject per period") and reindexing of per-date
//     counts onto a gap-free timegrid.Grid, one column per monitored
//     group.
//   - RedistributeWeekdays: removal of selected weekdays from a daily
//     block, folding each removed row's counts into a row at a signed
//     day offset. Codes are processed strictly one at a time, with row
//     positions re-indexed between codes.
//   - ToWeekly: aggregation of a daily block into ISO weeks, keyed by
//     the canonical week-start label.
//
// Blocks are plain value carriers (counts + grid + group names); every
// transform returns a new Block and never touches its input.
package aggregate
