// Package series defines the container type, options and sentinel errors
// for the series subpackage of github.com/carolinamerca/vetsyn.
package series

import (
	"errors"
	"time"

	"github.com/carolinamerca/vetsyn/matrix"
	"github.com/carolinamerca/vetsyn/timegrid"
)

// Sentinel errors for series operations.
var (
	// ErrEmptyInput indicates raw data yielding zero time points on
	// construction or update.
	ErrEmptyInput = errors.New("series: input yields no time points")
	// ErrNoNewData indicates an update with replaceExisting=false whose
	// records all fall at or before the container's last time point.
	ErrNoNewData = errors.New("series: no data past the last existing time point")
	// ErrInvariant indicates a post-construction dimension or calendar
	// violation across layers. It is fatal, never coerced.
	ErrInvariant = errors.New("series: container invariant violated")
	// ErrNilSeries indicates a nil *Series receiver or argument.
	ErrNilSeries = errors.New("series: nil series")
	// ErrGranularityMismatch indicates ISO-week labeled data supplied to a
	// daily container, which cannot be disaggregated.
	ErrGranularityMismatch = errors.New("series: ISO-week data cannot update a daily series")
)

// Series is the surveillance container. All fields are private and the
// type is immutable: constructors and Update return fresh instances and
// accessors hand out copies of mutable state.
//
// Shape invariants, enforced by every constructor:
//   - counts is T×G, non-empty; calendar has exactly T rows, strictly
//     ascending and gap-free at its granularity.
//   - baseline, when present, is T×G.
//   - alarms, ucl and lcl, when present, are T×G×A with an independent
//     algorithm dimension A per layer.
//   - groupModel, when present, has length G.
type Series struct {
	counts     *matrix.Dense
	calendar   *timegrid.Grid
	groups     []string
	baseline   *matrix.Dense
	alarms     *matrix.Cube
	ucl        *matrix.Cube
	lcl        *matrix.Cube
	groupModel []string
}

// Option attaches an optional layer during construction (New) or
// replacement (With).
type Option func(*Series)

// WithBaseline attaches a baseline layer (T×G, cleaned counts).
func WithBaseline(b *matrix.Dense) Option {
	return func(s *Series) { s.baseline = b }
}

// WithAlarms attaches an alarm layer (T×G×A detection outcomes).
func WithAlarms(q *matrix.Cube) Option {
	return func(s *Series) { s.alarms = q }
}

// WithUCL attaches an upper-control-limit layer (T×G×A).
func WithUCL(q *matrix.Cube) Option {
	return func(s *Series) { s.ucl = q }
}

// WithLCL attaches a lower-control-limit layer (T×G×A).
func WithLCL(q *matrix.Cube) Option {
	return func(s *Series) { s.lcl = q }
}

// WithGroupModel attaches the per-group regression-formula list; an
// empty string means "no formula for this group". Length must equal G.
func WithGroupModel(gm []string) Option {
	return func(s *Series) { s.groupModel = gm }
}

// BuildOptions configures FromRecords.
type BuildOptions struct {
	// Granularity selects the container's resolution.
	Granularity timegrid.Granularity
	// DateLayout is a Go time layout for day-level dates, or the reserved
	// timegrid.ISOWeekLayout literal for "YYYY-Www" input.
	DateLayout string
	// RemoveWeekdays / RedistributeOffsets configure weekday
	// redistribution; parallel lists, daily granularity only.
	RemoveWeekdays      []time.Weekday
	RedistributeOffsets []int
}

// DefaultBuildOptions returns a BuildOptions for a daily container fed
// ISO-date strings, with no weekday redistribution.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Granularity: timegrid.Daily,
		DateLayout:  timegrid.DayLayout,
	}
}

// UpdateOptions configures Update.
type UpdateOptions struct {
	// DateLayout as in BuildOptions.
	DateLayout string
	// AddNewGroups appends groups unseen in the container as new columns
	// when true, and silently drops their records when false.
	AddNewGroups bool
	// ReplaceExisting resolves overlap with existing history: when true,
	// existing rows overlapping the new block's range are replaced; when
	// false, only strictly newer time points are accepted and an update
	// carrying none fails with ErrNoNewData.
	ReplaceExisting bool
	// RemoveWeekdays / RedistributeOffsets as in BuildOptions.
	RemoveWeekdays      []time.Weekday
	RedistributeOffsets []int
}

// DefaultUpdateOptions returns an UpdateOptions for ISO-date input that
// appends strictly newer rows only and ignores unseen groups.
func DefaultUpdateOptions() UpdateOptions {
	return UpdateOptions{DateLayout: timegrid.DayLayout}
}
