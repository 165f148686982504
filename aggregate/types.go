// Package aggregate defines core types and sentinel errors for the
// aggregate subpackage of github.com/carolinamerca/vetsyn.
package aggregate

import (
	"errors"

	"github.com/carolinamerca/vetsyn/matrix"
	"github.com/carolinamerca/vetsyn/timegrid"
)

// Sentinel errors for aggregate operations.
var (
	// ErrNoRecords indicates the input yields zero countable events.
	ErrNoRecords = errors.New("aggregate: no countable records")
	// ErrUnknownDateFormat indicates a date that does not parse under the
	// supplied layout descriptor.
	ErrUnknownDateFormat = errors.New("aggregate: unrecognized date format")
	// ErrRedistributionSpec indicates malformed weekday-redistribution
	// parameters: offset list length differing from the weekday list, or a
	// code outside the seven valid weekdays.
	ErrRedistributionSpec = errors.New("aggregate: invalid weekday redistribution spec")
	// ErrNotDaily indicates a weekly block where a daily one is required.
	ErrNotDaily = errors.New("aggregate: operation requires a daily block")
)

// Record is one raw event: identifier fields (used only for
// deduplication), a group label, and the raw date text.
type Record struct {
	ID    []string // one or more identifier values per event
	Group string   // monitored group label
	Date  string   // raw date text, parsed under CountOptions.DateLayout
}

// CountOptions configures Count.
type CountOptions struct {
	// Groups is the existing container's ordered group set. nil means
	// "derive the group set from the data" (initial construction).
	Groups []string
	// AddNewGroups appends groups unseen in Groups as new columns when
	// true, and silently drops their records when false.
	AddNewGroups bool
	// DateLayout is a Go time layout for day-level dates, or the reserved
	// timegrid.ISOWeekLayout literal for "YYYY-Www" input.
	DateLayout string
}

// DefaultCountOptions derives the group set from the data and parses
// dates as day-level "2006-01-02" text.
func DefaultCountOptions() CountOptions {
	return CountOptions{DateLayout: timegrid.DayLayout}
}

// Block is an aligned count block: a dense T×G count matrix, the grid
// naming its T rows, and the ordered group names of its G columns.
type Block struct {
	Counts *matrix.Dense
	Grid   *timegrid.Grid
	Groups []string
}
