// Package timegrid defines core types and sentinel errors for the
// timegrid subpackage of github.com/carolinamerca/vetsyn.
package timegrid

import (
	"errors"
	"time"
)

// Sentinel errors for timegrid operations.
var (
	// ErrReversedBounds indicates the minimum date lies after the maximum date.
	ErrReversedBounds = errors.New("timegrid: min date is after max date")
	// ErrUnknownGranularity indicates a Granularity value outside Daily/Weekly.
	ErrUnknownGranularity = errors.New("timegrid: unknown granularity")
	// ErrEmptyGrid indicates a grid with no rows where at least one is required.
	ErrEmptyGrid = errors.New("timegrid: grid must have at least one row")
	// ErrLabelGap indicates two consecutive rows are not adjacent time points.
	ErrLabelGap = errors.New("timegrid: gap or disorder between consecutive rows")
	// ErrGranularityMismatch indicates an operation mixing daily and weekly grids.
	ErrGranularityMismatch = errors.New("timegrid: granularity mismatch")
	// ErrRowIndex indicates a row index outside [0, Len).
	ErrRowIndex = errors.New("timegrid: row index out of range")
	// ErrBadWeekLabel indicates a string that does not parse as "YYYY-Www".
	ErrBadWeekLabel = errors.New("timegrid: malformed ISO-week label")
)

// Granularity selects the time-point resolution of a grid.
type Granularity int

const (
	// Daily uses one row per calendar day.
	Daily Granularity = iota
	// Weekly uses one row per ISO week, anchored to the Monday week start.
	Weekly
)

// String implements fmt.Stringer for Granularity.
func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	default:
		return "unknown"
	}
}

// ParseGranularity converts a string produced by Granularity.String back
// into a Granularity value. Unrecognized input yields ErrUnknownGranularity.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	default:
		return 0, ErrUnknownGranularity
	}
}

// ISOWeekLayout is the reserved date-format descriptor designating
// "ISO-week label" input ("YYYY-Www") instead of a day-level Go layout.
const ISOWeekLayout = "ISOWeek"

// DayLayout is the canonical label layout for daily rows.
const DayLayout = "2006-01-02"

// Row is a single time point of a Grid with its derived attributes.
// Date holds the calendar day for daily rows and the canonical Monday
// week start for weekly rows. Weekday is meaningful for daily rows only.
type Row struct {
	Label   string       // canonical time-point label (ISO date or "YYYY-Www")
	Date    time.Time    // UTC midnight of the day / week start
	Weekday time.Weekday // day of week (daily granularity)
	ISOWeek int          // ISO 8601 week number
	ISOYear int          // ISO 8601 week-numbering year
}

// Grid is an ordered, gap-free sequence of time points. It is immutable
// once built; all transforming methods return a new Grid.
type Grid struct {
	gran  Granularity
	rows  []Row
	index map[string]int // label -> row position
}
