package timegrid

import (
	"fmt"
	"time"
)

// New builds a complete, gap-free Grid covering [min, max] at the given
// granularity.
//
// Behavior:
//  1. Validate min <= max and the granularity value.
//  2. Daily: one row per calendar day, labeled "2006-01-02", carrying
//     the weekday and ISO week/year of the day.
//  3. Weekly: min and max are snapped to their Monday week starts and
//     one row is emitted per ISO week, labeled "YYYY-Www".
//
// Complexity: O(T) time and memory, T = number of time points.
func New(min, max time.Time, gran Granularity) (*Grid, error) {
	lo, hi := midnight(min), midnight(max)
	if gran == Weekly {
		lo, hi = WeekStart(lo), WeekStart(hi)
	}
	if lo.After(hi) {
		return nil, fmt.Errorf("%s > %s: %w",
			min.Format(DayLayout), max.Format(DayLayout), ErrReversedBounds)
	}

	var step int
	switch gran {
	case Daily:
		step = 1
	case Weekly:
		step = 7
	default:
		return nil, ErrUnknownGranularity
	}

	var rows []Row
	for d := lo; !d.After(hi); d = d.AddDate(0, 0, step) {
		rows = append(rows, rowAt(d, gran))
	}
	return fromRows(gran, rows), nil
}

// FromLabels rebuilds a Grid from previously emitted canonical labels,
// e.g. when restoring a persisted series. Labels are parsed in order and
// taken as-is; structural soundness is the caller's to check via
// Validate (a weekday-excluded daily grid is legal and must survive a
// round trip).
// Complexity: O(T).
func FromLabels(gran Granularity, labels []string) (*Grid, error) {
	if gran != Daily && gran != Weekly {
		return nil, ErrUnknownGranularity
	}
	if len(labels) == 0 {
		return nil, ErrEmptyGrid
	}
	rows := make([]Row, len(labels))
	for i, label := range labels {
		layout := DayLayout
		if gran == Weekly {
			layout = ISOWeekLayout
		}
		d, err := ParseDate(label, layout)
		if err != nil {
			return nil, err
		}
		rows[i] = rowAt(d, gran)
	}
	return fromRows(gran, rows), nil
}

// rowAt derives the Row attributes for the time point anchored at d.
// d must already be a UTC midnight (and a week start for Weekly).
func rowAt(d time.Time, gran Granularity) Row {
	year, week := d.ISOWeek()
	r := Row{Date: d, Weekday: d.Weekday(), ISOWeek: week, ISOYear: year}
	if gran == Weekly {
		r.Label = WeekLabel(d)
	} else {
		r.Label = d.Format(DayLayout)
	}
	return r
}

// fromRows assembles a Grid around an already-ordered row slice and
// builds the label index. Callers own row ordering and gap freedom;
// Validate checks both.
func fromRows(gran Granularity, rows []Row) *Grid {
	idx := make(map[string]int, len(rows))
	for i, r := range rows {
		idx[r.Label] = i
	}
	return &Grid{gran: gran, rows: rows, index: idx}
}

// Len returns the number of time points.
func (g *Grid) Len() int { return len(g.rows) }

// Granularity returns the grid's time-point resolution.
func (g *Grid) Granularity() Granularity { return g.gran }

// Row returns the i-th time point. Out-of-range indices panic like a
// slice access would; use Len to bound loops.
func (g *Grid) Row(i int) Row { return g.rows[i] }

// First returns the earliest time point. The grid must be non-empty.
func (g *Grid) First() Row { return g.rows[0] }

// Last returns the latest time point. The grid must be non-empty.
func (g *Grid) Last() Row { return g.rows[len(g.rows)-1] }

// Index returns the row position of a canonical label and whether the
// label is present.
// Complexity: O(1).
func (g *Grid) Index(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// Labels returns the canonical labels of all rows, in time order.
// Complexity: O(T).
func (g *Grid) Labels() []string {
	out := make([]string, len(g.rows))
	for i, r := range g.rows {
		out[i] = r.Label
	}
	return out
}

// Slice returns a new Grid holding rows [from, to).
// Returns ErrRowIndex when the half-open range is invalid.
// Complexity: O(to-from).
func (g *Grid) Slice(from, to int) (*Grid, error) {
	if from < 0 || to > len(g.rows) || from > to {
		return nil, fmt.Errorf("slice [%d,%d) of %d rows: %w", from, to, len(g.rows), ErrRowIndex)
	}
	rows := make([]Row, to-from)
	copy(rows, g.rows[from:to])
	return fromRows(g.gran, rows), nil
}

// Delete returns a new Grid with the given row positions removed.
// Positions outside [0, Len) yield ErrRowIndex; duplicates are ignored.
// Complexity: O(T).
func (g *Grid) Delete(positions []int) (*Grid, error) {
	drop := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(g.rows) {
			return nil, fmt.Errorf("delete row %d of %d: %w", p, len(g.rows), ErrRowIndex)
		}
		drop[p] = struct{}{}
	}
	rows := make([]Row, 0, len(g.rows)-len(drop))
	for i, r := range g.rows {
		if _, gone := drop[i]; !gone {
			rows = append(rows, r)
		}
	}
	return fromRows(g.gran, rows), nil
}

// Concat returns a new Grid of a's rows followed by b's rows. Both grids
// must share a granularity; the seam (and everything else) is checked by
// the caller via Validate, so Concat itself only joins.
func Concat(a, b *Grid) (*Grid, error) {
	if a.gran != b.gran {
		return nil, ErrGranularityMismatch
	}
	rows := make([]Row, 0, len(a.rows)+len(b.rows))
	rows = append(rows, a.rows...)
	rows = append(rows, b.rows...)
	return fromRows(a.gran, rows), nil
}

// Validate checks the structural invariants of the grid: at least one
// row, unique labels, and strictly ascending, gap-free time points.
//
// Weekly grids must advance by exactly seven days. Daily grids must be
// gap-free over the weekdays they represent: a daily series may exclude
// whole weekdays (weekend-redistributed data carries no Saturdays or
// Sundays), so a skipped day is a violation only when its weekday occurs
// elsewhere in the grid.
//
// Complexity: O(T) for weekly, O(T + skipped days) for daily.
func (g *Grid) Validate() error {
	if len(g.rows) == 0 {
		return ErrEmptyGrid
	}
	if len(g.index) != len(g.rows) {
		return fmt.Errorf("%d labels for %d rows: %w", len(g.index), len(g.rows), ErrLabelGap)
	}
	if g.gran == Weekly {
		for i := 1; i < len(g.rows); i++ {
			want := g.rows[i-1].Date.AddDate(0, 0, 7)
			if !g.rows[i].Date.Equal(want) {
				return fmt.Errorf("row %d (%s) does not follow row %d (%s): %w",
					i, g.rows[i].Label, i-1, g.rows[i-1].Label, ErrLabelGap)
			}
		}
		return nil
	}
	var present [7]bool
	for _, r := range g.rows {
		present[int(r.Weekday)] = true
	}
	for i := 1; i < len(g.rows); i++ {
		prev, cur := g.rows[i-1].Date, g.rows[i].Date
		if !cur.After(prev) {
			return fmt.Errorf("row %d (%s) not after row %d (%s): %w",
				i, g.rows[i].Label, i-1, g.rows[i-1].Label, ErrLabelGap)
		}
		for d := prev.AddDate(0, 0, 1); d.Before(cur); d = d.AddDate(0, 0, 1) {
			if present[int(d.Weekday())] {
				return fmt.Errorf("day %s missing between rows %d and %d: %w",
					d.Format(DayLayout), i-1, i, ErrLabelGap)
			}
		}
	}
	return nil
}
