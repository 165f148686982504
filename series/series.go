package series

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/carolinamerca/vetsyn/aggregate"
	"github.com/carolinamerca/vetsyn/matrix"
	"github.com/carolinamerca/vetsyn/timegrid"
)

// New builds a Series from a pre-aligned count matrix, its calendar grid
// and the ordered group names, plus optional layers. Every shape
// invariant is validated before the instance is returned; any violation
// yields ErrInvariant (or ErrEmptyInput for a missing count matrix).
//
// Complexity: O(T*G) validation, no copying of the supplied layers —
// ownership of every argument transfers to the Series.
func New(counts *matrix.Dense, calendar *timegrid.Grid, groups []string, opts ...Option) (*Series, error) {
	s := &Series{counts: counts, calendar: calendar, groups: groups}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromRecords builds the initial Series from raw event records: the
// calendar spans the records' own date range, every group present in the
// data becomes a column, and all detection layers start absent.
//
// Errors: ErrEmptyInput on an empty record table,
// aggregate.ErrUnknownDateFormat on unparseable dates,
// ErrGranularityMismatch for ISO-week data into a daily container, and
// aggregate.ErrRedistributionSpec for bad weekday parameters.
func FromRecords(records []aggregate.Record, opts BuildOptions) (*Series, error) {
	block, err := buildBlock(records, nil, false, pipelineOptions{
		target:     opts.Granularity,
		dateLayout: opts.DateLayout,
		remove:     opts.RemoveWeekdays,
		addTo:      opts.RedistributeOffsets,
	})
	if err != nil {
		return nil, err
	}
	return New(block.Counts, block.Grid, block.Groups)
}

// With returns a copy of s with the given layers replaced, re-validated.
// It is how detection algorithms publish baseline/alarm/limit layers
// back into a container without mutating it.
func (s *Series) With(opts ...Option) (*Series, error) {
	if s == nil {
		return nil, ErrNilSeries
	}
	next := &Series{
		counts:     s.counts,
		calendar:   s.calendar,
		groups:     s.groups,
		baseline:   s.baseline,
		alarms:     s.alarms,
		ucl:        s.ucl,
		lcl:        s.lcl,
		groupModel: s.groupModel,
	}
	for _, opt := range opts {
		opt(next)
	}
	if err := next.validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// Dim returns the container's row and column counts (T, G).
func (s *Series) Dim() (rows, cols int) {
	return s.counts.Rows(), s.counts.Cols()
}

// Granularity returns the container's time-point resolution.
func (s *Series) Granularity() timegrid.Granularity {
	return s.calendar.Granularity()
}

// Calendar returns the calendar grid. Grids are immutable, so the
// internal value is shared.
func (s *Series) Calendar() *timegrid.Grid { return s.calendar }

// Groups returns a copy of the ordered group names.
func (s *Series) Groups() []string {
	return append([]string(nil), s.groups...)
}

// Counts returns a copy of the count matrix.
func (s *Series) Counts() *matrix.Dense { return s.counts.Clone() }

// Baseline returns a copy of the baseline layer, or nil when absent.
func (s *Series) Baseline() *matrix.Dense {
	if s.baseline == nil {
		return nil
	}
	return s.baseline.Clone()
}

// Alarms returns a copy of the alarm layer, or nil when absent.
func (s *Series) Alarms() *matrix.Cube {
	if s.alarms == nil {
		return nil
	}
	return s.alarms.Clone()
}

// UCL returns a copy of the upper-control-limit layer, or nil when absent.
func (s *Series) UCL() *matrix.Cube {
	if s.ucl == nil {
		return nil
	}
	return s.ucl.Clone()
}

// LCL returns a copy of the lower-control-limit layer, or nil when absent.
func (s *Series) LCL() *matrix.Cube {
	if s.lcl == nil {
		return nil
	}
	return s.lcl.Clone()
}

// GroupModel returns a copy of the per-group formula list, or nil when
// absent.
func (s *Series) GroupModel() []string {
	if s.groupModel == nil {
		return nil
	}
	return append([]string(nil), s.groupModel...)
}

// GroupIndex returns the column position of a group name.
func (s *Series) GroupIndex(group string) (int, bool) {
	i := lo.IndexOf(s.groups, group)
	if i < 0 {
		return 0, false
	}
	return i, true
}

// validate enforces every container invariant; see the Series type doc.
// Violations surface as ErrInvariant with positional context, except a
// missing count matrix, which is ErrEmptyInput.
func (s *Series) validate() error {
	if s.counts == nil {
		return ErrEmptyInput
	}
	rows, cols := s.counts.Rows(), s.counts.Cols()
	if s.calendar == nil {
		return fmt.Errorf("calendar layer missing: %w", ErrInvariant)
	}
	if err := s.calendar.Validate(); err != nil {
		return fmt.Errorf("calendar invalid (%v): %w", err, ErrInvariant)
	}
	if s.calendar.Len() != rows {
		return fmt.Errorf("calendar has %d rows, counts %d: %w", s.calendar.Len(), rows, ErrInvariant)
	}
	if len(s.groups) != cols {
		return fmt.Errorf("%d group names for %d columns: %w", len(s.groups), cols, ErrInvariant)
	}
	if dup := lo.FindDuplicates(s.groups); len(dup) > 0 {
		return fmt.Errorf("duplicated group names %v: %w", dup, ErrInvariant)
	}
	if s.baseline != nil {
		if s.baseline.Rows() != rows || s.baseline.Cols() != cols {
			return fmt.Errorf("baseline is %dx%d, counts %dx%d: %w",
				s.baseline.Rows(), s.baseline.Cols(), rows, cols, ErrInvariant)
		}
	}
	for _, layer := range []struct {
		name string
		cube *matrix.Cube
	}{
		{"alarms", s.alarms},
		{"ucl", s.ucl},
		{"lcl", s.lcl},
	} {
		if layer.cube == nil {
			continue
		}
		if layer.cube.Rows() != rows || layer.cube.Cols() != cols {
			return fmt.Errorf("%s is %dx%d, counts %dx%d: %w", layer.name,
				layer.cube.Rows(), layer.cube.Cols(), rows, cols, ErrInvariant)
		}
	}
	if s.groupModel != nil && len(s.groupModel) != cols {
		return fmt.Errorf("group model has %d entries for %d columns: %w",
			len(s.groupModel), cols, ErrInvariant)
	}
	return nil
}
