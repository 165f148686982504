package series

import (
	"errors"
	"fmt"
	"time"

	"github.com/carolinamerca/vetsyn/aggregate"
	"github.com/carolinamerca/vetsyn/matrix"
	"github.com/carolinamerca/vetsyn/timegrid"
)

// pipelineOptions parameterizes the shared record-to-block pipeline used
// by FromRecords and Update.
type pipelineOptions struct {
	target     timegrid.Granularity
	dateLayout string
	remove     []time.Weekday
	addTo      []int
}

// buildBlock runs the aggregation pipeline: span detection, grid
// construction at the data's granularity, counting with the group
// policy, optional weekday redistribution, and roll-up to ISO weeks when
// the target container is weekly but the data daily.
//
// groups/addNew carry the existing container's group policy; a nil
// groups slice admits every group in the data (initial construction).
func buildBlock(records []aggregate.Record, groups []string, addNew bool, p pipelineOptions) (*aggregate.Block, error) {
	dataGran := timegrid.Daily
	if p.dateLayout == timegrid.ISOWeekLayout {
		dataGran = timegrid.Weekly
	}
	if p.target == timegrid.Daily && dataGran == timegrid.Weekly {
		return nil, ErrGranularityMismatch
	}
	if len(p.remove) > 0 && p.target != timegrid.Daily {
		return nil, fmt.Errorf("weekday removal on a %s series: %w",
			p.target, aggregate.ErrRedistributionSpec)
	}

	min, max, err := aggregate.Span(records, p.dateLayout)
	if err != nil {
		if errors.Is(err, aggregate.ErrNoRecords) {
			return nil, ErrEmptyInput
		}
		return nil, err
	}
	grid, err := timegrid.New(min, max, dataGran)
	if err != nil {
		return nil, err
	}
	block, err := aggregate.Count(records, grid, aggregate.CountOptions{
		Groups:       groups,
		AddNewGroups: addNew,
		DateLayout:   p.dateLayout,
	})
	if err != nil {
		if errors.Is(err, aggregate.ErrNoRecords) {
			return nil, ErrEmptyInput
		}
		return nil, err
	}
	if len(p.remove) > 0 || len(p.addTo) > 0 {
		if block, err = aggregate.RedistributeWeekdays(block, p.remove, p.addTo); err != nil {
			return nil, err
		}
	}
	if p.target == timegrid.Weekly && dataGran == timegrid.Daily {
		if block, err = aggregate.ToWeekly(block); err != nil {
			return nil, err
		}
	}
	return block, nil
}

// Update consumes the existing container and a batch of raw records and
// produces a new container with the records aggregated, realigned and
// spliced in. The receiver is never modified; on any error it remains
// the current, untouched series.
//
// Pipeline:
//  1. Aggregate records into a block at the container's granularity
//     (buildBlock), applying the AddNewGroups policy against the
//     container's group set.
//  2. With ReplaceExisting=false, restrict the block to time points
//     strictly after the container's last row; an empty remainder is
//     ErrNoNewData.
//  3. Find the splice row: the retained history is every existing row
//     strictly before the block's first time point. With
//     ReplaceExisting=true this is where overlapping rows are replaced,
//     not merged numerically.
//  4. Reconcile columns: new groups pad every retained row with zeros
//     (counts, baseline) or the missing marker (alarms, UCL, LCL),
//     appended after the existing columns.
//  5. Concatenate rows: counts and calendar gain the block; baseline
//     gains the block's counts verbatim (no cleaning applied yet);
//     detection layers gain fully-missing rows at their historical
//     algorithm dimension. Absent layers stay absent.
//  6. Validate the result wholesale; a violation (for instance a
//     calendar gap between history and block) is ErrInvariant.
//
// Complexity: O(N + T*G*A) per call.
func (s *Series) Update(records []aggregate.Record, opts UpdateOptions) (*Series, error) {
	if s == nil {
		return nil, ErrNilSeries
	}
	block, err := buildBlock(records, s.groups, opts.AddNewGroups, pipelineOptions{
		target:     s.calendar.Granularity(),
		dateLayout: opts.DateLayout,
		remove:     opts.RemoveWeekdays,
		addTo:      opts.RedistributeOffsets,
	})
	if err != nil {
		return nil, err
	}

	// Step 2: without replacement, only strictly newer time points count.
	if !opts.ReplaceExisting {
		if block, err = clampAfter(block, s.calendar.Last().Date); err != nil {
			return nil, err
		}
	}

	// Step 3: retained history is everything strictly before the block.
	start := block.Grid.First().Date
	retain := 0
	for retain < s.calendar.Len() && s.calendar.Row(retain).Date.Before(start) {
		retain++
	}

	grow := len(block.Groups) - len(s.groups)
	counts, calendar, err := spliceCounts(s, block, retain, grow)
	if err != nil {
		return nil, err
	}

	layers := make([]Option, 0, 5)
	if s.baseline != nil {
		baseline, err := spliceBaseline(s.baseline, block, retain, grow)
		if err != nil {
			return nil, err
		}
		layers = append(layers, WithBaseline(baseline))
	}
	for _, layer := range []struct {
		cube *matrix.Cube
		with func(*matrix.Cube) Option
	}{
		{s.alarms, WithAlarms},
		{s.ucl, WithUCL},
		{s.lcl, WithLCL},
	} {
		if layer.cube == nil {
			continue
		}
		spliced, err := spliceCube(layer.cube, block, retain, grow)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer.with(spliced))
	}
	if s.groupModel != nil {
		gm := append([]string(nil), s.groupModel...)
		for i := 0; i < grow; i++ {
			gm = append(gm, "") // new groups receive no formula entry
		}
		layers = append(layers, WithGroupModel(gm))
	}

	return New(counts, calendar, block.Groups, layers...)
}

// clampAfter restricts a block to rows strictly after last, or fails
// with ErrNoNewData when nothing remains.
func clampAfter(block *aggregate.Block, last time.Time) (*aggregate.Block, error) {
	from := 0
	for from < block.Grid.Len() && !block.Grid.Row(from).Date.After(last) {
		from++
	}
	if from == block.Grid.Len() {
		return nil, ErrNoNewData
	}
	if from == 0 {
		return block, nil
	}
	counts, err := block.Counts.SliceRows(from, block.Counts.Rows())
	if err != nil {
		return nil, err
	}
	grid, err := block.Grid.Slice(from, block.Grid.Len())
	if err != nil {
		return nil, err
	}
	return &aggregate.Block{Counts: counts, Grid: grid, Groups: block.Groups}, nil
}

// spliceCounts joins the column-padded retained history with the new
// block for the count matrix and the calendar.
func spliceCounts(s *Series, block *aggregate.Block, retain, grow int) (*matrix.Dense, *timegrid.Grid, error) {
	if retain == 0 {
		return block.Counts, block.Grid, nil
	}
	hist, err := s.counts.SliceRows(0, retain)
	if err != nil {
		return nil, nil, err
	}
	if hist, err = hist.AppendCols(grow, 0); err != nil {
		return nil, nil, err
	}
	counts, err := matrix.VStack(hist, block.Counts)
	if err != nil {
		return nil, nil, err
	}
	histGrid, err := s.calendar.Slice(0, retain)
	if err != nil {
		return nil, nil, err
	}
	calendar, err := timegrid.Concat(histGrid, block.Grid)
	if err != nil {
		return nil, nil, err
	}
	return counts, calendar, nil
}

// spliceBaseline joins the zero-padded retained baseline with the new
// block's counts, which seed the baseline until cleaning runs.
func spliceBaseline(baseline *matrix.Dense, block *aggregate.Block, retain, grow int) (*matrix.Dense, error) {
	seed := block.Counts.Clone()
	if retain == 0 {
		return seed, nil
	}
	hist, err := baseline.SliceRows(0, retain)
	if err != nil {
		return nil, err
	}
	if hist, err = hist.AppendCols(grow, 0); err != nil {
		return nil, err
	}
	return matrix.VStack(hist, seed)
}

// spliceCube joins a missing-padded retained detection layer with
// fully-missing rows for the new block, preserving the layer's
// algorithm dimension.
func spliceCube(layer *matrix.Cube, block *aggregate.Block, retain, grow int) (*matrix.Cube, error) {
	fresh, err := matrix.NewCube(block.Counts.Rows(), len(block.Groups), layer.Depth(), matrix.Missing())
	if err != nil {
		return nil, err
	}
	if retain == 0 {
		return fresh, nil
	}
	hist, err := layer.SliceRows(0, retain)
	if err != nil {
		return nil, err
	}
	if hist, err = hist.AppendCols(grow, matrix.Missing()); err != nil {
		return nil, err
	}
	return matrix.VStackCube(hist, fresh)
}
