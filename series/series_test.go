package series_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carolinamerca/vetsyn/aggregate"
	"github.com/carolinamerca/vetsyn/matrix"
	"github.com/carolinamerca/vetsyn/series"
	"github.com/carolinamerca/vetsyn/timegrid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(id, group, date string) aggregate.Record {
	return aggregate.Record{ID: []string{id}, Group: group, Date: date}
}

// dailySeries builds a one-group daily container over [from,
// from+len(values)-1] with the given counts for group name.
func dailySeries(t *testing.T, from time.Time, name string, values []float64, opts ...series.Option) *series.Series {
	t.Helper()
	grid, err := timegrid.New(from, from.AddDate(0, 0, len(values)-1), timegrid.Daily)
	require.NoError(t, err)
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = []float64{v}
	}
	counts, err := matrix.FromRows(rows)
	require.NoError(t, err)
	s, err := series.New(counts, grid, []string{name}, opts...)
	require.NoError(t, err)
	return s
}

func colOf(t *testing.T, s *series.Series, group string) []float64 {
	t.Helper()
	j, ok := s.GroupIndex(group)
	require.True(t, ok, "group %q present", group)
	c, err := s.Counts().Col(j)
	require.NoError(t, err)
	return c
}

// TestNew_Validation exercises the construction invariants:
// calendar/counts row mismatch, group name mismatch, layer shape
// mismatch and duplicate names all surface ErrInvariant.
func TestNew_Validation(t *testing.T) {
	grid, err := timegrid.New(day(2010, 1, 1), day(2010, 1, 3), timegrid.Daily)
	require.NoError(t, err)
	counts, err := matrix.NewDense(3, 2)
	require.NoError(t, err)

	_, err = series.New(nil, grid, nil)
	assert.ErrorIs(t, err, series.ErrEmptyInput)

	_, err = series.New(counts, grid, []string{"A"})
	assert.ErrorIs(t, err, series.ErrInvariant, "one name for two columns")

	_, err = series.New(counts, grid, []string{"A", "A"})
	assert.ErrorIs(t, err, series.ErrInvariant, "duplicated group names")

	short, err := timegrid.New(day(2010, 1, 1), day(2010, 1, 2), timegrid.Daily)
	require.NoError(t, err)
	_, err = series.New(counts, short, []string{"A", "B"})
	assert.ErrorIs(t, err, series.ErrInvariant, "calendar row mismatch")

	narrow, err := matrix.NewDense(3, 1)
	require.NoError(t, err)
	_, err = series.New(counts, grid, []string{"A", "B"}, series.WithBaseline(narrow))
	assert.ErrorIs(t, err, series.ErrInvariant, "baseline column mismatch")

	cube, err := matrix.NewCube(2, 2, 1, 0)
	require.NoError(t, err)
	_, err = series.New(counts, grid, []string{"A", "B"}, series.WithAlarms(cube))
	assert.ErrorIs(t, err, series.ErrInvariant, "alarm row mismatch")

	_, err = series.New(counts, grid, []string{"A", "B"}, series.WithGroupModel([]string{"~1"}))
	assert.ErrorIs(t, err, series.ErrInvariant, "group model length mismatch")
}

// TestFromRecords_InitialConstruction covers the raw constructor: span
// derived from the data, all groups admitted, layers absent.
func TestFromRecords_InitialConstruction(t *testing.T) {
	s, err := series.FromRecords([]aggregate.Record{
		rec("a", "GI", "2010-01-03"),
		rec("b", "GI", "2010-01-01"),
		rec("b", "Resp", "2010-01-03"),
		rec("b", "Resp", "2010-01-03"), // duplicate submission
	}, series.DefaultBuildOptions())
	require.NoError(t, err)

	rows, cols := s.Dim()
	assert.Equal(t, 3, rows, "2010-01-01..2010-01-03")
	assert.Equal(t, 2, cols)
	assert.Equal(t, []string{"GI", "Resp"}, s.Groups())
	assert.Equal(t, []float64{1, 0, 1}, colOf(t, s, "GI"))
	assert.Equal(t, []float64{0, 0, 1}, colOf(t, s, "Resp"), "deduplicated")
	assert.Nil(t, s.Baseline(), "layers start absent")
	assert.Nil(t, s.Alarms())
	assert.Nil(t, s.GroupModel())

	_, err = series.FromRecords(nil, series.DefaultBuildOptions())
	assert.ErrorIs(t, err, series.ErrEmptyInput)
}

// TestUpdate_EndToEndScenario is the reference scenario: a daily
// one-group container extended by two records of a brand-new group.
func TestUpdate_EndToEndScenario(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2, 0, 3, 1})

	got, err := s.Update([]aggregate.Record{
		rec("x", "B", "2010-01-06"),
		rec("y", "B", "2010-01-07"),
	}, series.UpdateOptions{
		DateLayout:      timegrid.DayLayout,
		AddNewGroups:    true,
		ReplaceExisting: true,
	})
	require.NoError(t, err)

	rows, cols := got.Dim()
	assert.Equal(t, 7, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, "2010-01-01", got.Calendar().First().Label)
	assert.Equal(t, "2010-01-07", got.Calendar().Last().Label)
	assert.Equal(t, []float64{1, 2, 0, 3, 1, 0, 0}, colOf(t, got, "A"))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 1, 1}, colOf(t, got, "B"))

	// The input container is untouched.
	rows, cols = s.Dim()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 1, cols)
}

// TestUpdate_NoNewData pins the idempotent no-op: stale data with
// ReplaceExisting=false fails and leaves the container as it was.
func TestUpdate_NoNewData(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2, 3})

	_, err := s.Update([]aggregate.Record{
		rec("x", "A", "2010-01-02"),
		rec("y", "A", "2010-01-03"),
	}, series.DefaultUpdateOptions())
	assert.ErrorIs(t, err, series.ErrNoNewData)
	assert.Equal(t, []float64{1, 2, 3}, colOf(t, s, "A"))
}

// TestUpdate_AppendOnlyKeepsOverlapUntouched verifies that with
// ReplaceExisting=false, overlapping time points in the new data are
// discarded rather than merged.
func TestUpdate_AppendOnlyKeepsOverlapUntouched(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2, 3})

	got, err := s.Update([]aggregate.Record{
		rec("x", "A", "2010-01-03"), // overlaps the last existing row
		rec("y", "A", "2010-01-04"),
		rec("z", "A", "2010-01-05"),
	}, series.DefaultUpdateOptions())
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 1, 1}, colOf(t, got, "A"),
		"existing row 2010-01-03 keeps its value 3")
}

// TestUpdate_ReplaceExistingOverwritesOverlap verifies the replacement
// policy: overlapping history is discarded in favor of the new block.
func TestUpdate_ReplaceExistingOverwritesOverlap(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2, 3, 4, 5})

	got, err := s.Update([]aggregate.Record{
		rec("x", "A", "2010-01-04"),
		rec("y", "A", "2010-01-06"),
	}, series.UpdateOptions{
		DateLayout:      timegrid.DayLayout,
		ReplaceExisting: true,
	})
	require.NoError(t, err)

	rows, _ := got.Dim()
	assert.Equal(t, 6, rows)
	assert.Equal(t, []float64{1, 2, 3, 1, 0, 1}, colOf(t, got, "A"),
		"rows from 2010-01-04 replaced, not merged numerically")
}

// TestUpdate_DropsUnseenGroupsWithoutFlag ensures records of unknown
// groups vanish silently when AddNewGroups is false.
func TestUpdate_DropsUnseenGroupsWithoutFlag(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2})

	got, err := s.Update([]aggregate.Record{
		rec("x", "A", "2010-01-03"),
		rec("y", "B", "2010-01-03"),
	}, series.DefaultUpdateOptions())
	require.NoError(t, err)

	_, cols := got.Dim()
	assert.Equal(t, 1, cols)
	assert.Equal(t, []float64{1, 2, 1}, colOf(t, got, "A"))
	_, ok := got.GroupIndex("B")
	assert.False(t, ok)
}

// TestUpdate_ColumnGrowthBackfillsLayers is the column-growth property:
// a new group's history is zero in counts/baseline and missing in every
// detection layer, while the new rows of every detection layer are
// missing across all groups.
func TestUpdate_ColumnGrowthBackfillsLayers(t *testing.T) {
	baseline, err := matrix.FromRows([][]float64{{1}, {1}, {2}})
	require.NoError(t, err)
	alarms, err := matrix.NewCube(3, 1, 2, 0)
	require.NoError(t, err)
	ucl, err := matrix.NewCube(3, 1, 2, 9)
	require.NoError(t, err)
	lcl, err := matrix.NewCube(3, 1, 2, -9)
	require.NoError(t, err)
	gm := []string{"~dow"}

	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2, 3},
		series.WithBaseline(baseline), series.WithAlarms(alarms),
		series.WithUCL(ucl), series.WithLCL(lcl), series.WithGroupModel(gm))

	got, err := s.Update([]aggregate.Record{
		rec("x", "B", "2010-01-04"),
		rec("y", "B", "2010-01-05"),
	}, series.UpdateOptions{
		DateLayout:      timegrid.DayLayout,
		AddNewGroups:    true,
		ReplaceExisting: true,
	})
	require.NoError(t, err)

	rows, cols := got.Dim()
	require.Equal(t, 5, rows)
	require.Equal(t, 2, cols)

	// counts/baseline: zero backfill for the new column.
	assert.Equal(t, []float64{0, 0, 0, 1, 1}, colOf(t, got, "B"))
	gb := got.Baseline()
	require.NotNil(t, gb)
	bcol, err := gb.Col(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 1, 1}, bcol, "baseline seeded with new counts, zero history")
	acol, err := gb.Col(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 2, 0, 0}, acol, "existing baseline kept; new rows seeded from counts")

	// Detection layers: historical rows of the new column are missing,
	// new rows are missing everywhere, old values survive, A unchanged.
	for _, cube := range []*matrix.Cube{got.Alarms(), got.UCL(), got.LCL()} {
		require.NotNil(t, cube)
		assert.Equal(t, 2, cube.Depth())
		for i := 0; i < 3; i++ {
			v, err := cube.At(i, 1, 0)
			require.NoError(t, err)
			assert.True(t, matrix.IsMissing(v), "history of new column at row %d", i)
		}
		for i := 3; i < 5; i++ {
			for j := 0; j < 2; j++ {
				v, err := cube.At(i, j, 1)
				require.NoError(t, err)
				assert.True(t, matrix.IsMissing(v), "fresh row %d col %d", i, j)
			}
		}
	}
	v, err := got.UCL().At(2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v, "historical limit values survive")

	assert.Equal(t, []string{"~dow", ""}, got.GroupModel(), "new groups receive no formula entry")
}

// TestUpdate_StickyEmptyLayers verifies absent layers stay absent.
func TestUpdate_StickyEmptyLayers(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2})

	got, err := s.Update([]aggregate.Record{rec("x", "A", "2010-01-03")},
		series.DefaultUpdateOptions())
	require.NoError(t, err)

	assert.Nil(t, got.Baseline())
	assert.Nil(t, got.Alarms())
	assert.Nil(t, got.UCL())
	assert.Nil(t, got.LCL())
	assert.Nil(t, got.GroupModel())
}

// TestUpdate_CalendarGapIsFatal ensures a block that would leave a hole
// behind the retained history fails validation instead of producing a
// gapped container.
func TestUpdate_CalendarGapIsFatal(t *testing.T) {
	// Mon 2010-01-04 .. Fri 2010-01-08; the seam to Tue 2010-01-12 skips
	// Mon 2010-01-11, a weekday the series does represent.
	s := dailySeries(t, day(2010, 1, 4), "A", []float64{1, 2, 3, 4, 5})

	_, err := s.Update([]aggregate.Record{rec("x", "A", "2010-01-12")},
		series.DefaultUpdateOptions())
	assert.ErrorIs(t, err, series.ErrInvariant)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, colOf(t, s, "A"), "failed update leaves container untouched")
}

// TestUpdate_ReplaceWholeHistory covers a block starting before the
// container: everything is replaced, layers shrink to the block.
func TestUpdate_ReplaceWholeHistory(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 3), "A", []float64{5, 5, 5})

	got, err := s.Update([]aggregate.Record{
		rec("x", "A", "2010-01-01"),
		rec("y", "A", "2010-01-04"),
	}, series.UpdateOptions{DateLayout: timegrid.DayLayout, ReplaceExisting: true})
	require.NoError(t, err)

	assert.Equal(t, "2010-01-01", got.Calendar().First().Label)
	assert.Equal(t, []float64{1, 0, 0, 1}, colOf(t, got, "A"))
}

// TestUpdate_WeeklySeriesFromDailyData covers granularity conversion:
// a weekly container fed day-level records aggregates them by ISO week.
func TestUpdate_WeeklySeriesFromDailyData(t *testing.T) {
	// Weekly container covering 2010-W01..2010-W02.
	grid, err := timegrid.New(day(2010, 1, 4), day(2010, 1, 11), timegrid.Weekly)
	require.NoError(t, err)
	counts, err := matrix.FromRows([][]float64{{3}, {1}})
	require.NoError(t, err)
	s, err := series.New(counts, grid, []string{"A"})
	require.NoError(t, err)

	got, err := s.Update([]aggregate.Record{
		rec("a", "A", "2010-01-18"), // Mon of W03
		rec("b", "A", "2010-01-20"), // Wed of W03
		rec("c", "A", "2010-01-25"), // Mon of W04
	}, series.UpdateOptions{DateLayout: timegrid.DayLayout})
	require.NoError(t, err)

	assert.Equal(t, timegrid.Weekly, got.Granularity())
	assert.Equal(t, []string{"2010-W01", "2010-W02", "2010-W03", "2010-W04"}, got.Calendar().Labels())
	assert.Equal(t, []float64{3, 1, 2, 1}, colOf(t, got, "A"))
}

// TestUpdate_WeeklyDataIntoDailySeries must fail: week labels cannot be
// disaggregated into days.
func TestUpdate_WeeklyDataIntoDailySeries(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1})
	_, err := s.Update([]aggregate.Record{rec("a", "A", "2010-W02")},
		series.UpdateOptions{DateLayout: timegrid.ISOWeekLayout})
	assert.ErrorIs(t, err, series.ErrGranularityMismatch)
}

// TestUpdate_WeekdayRedistribution runs the update pipeline with weekend
// removal folded into the following Monday.
func TestUpdate_WeekdayRedistribution(t *testing.T) {
	// Weekend-free history Mon 2010-01-04 .. Fri 2010-01-08.
	s := dailySeries(t, day(2010, 1, 4), "A", []float64{1, 1, 1, 1, 1})

	// New data Sat 2010-01-09 .. Mon 2010-01-11 with weekend submissions.
	got, err := s.Update([]aggregate.Record{
		rec("a", "A", "2010-01-09"), // Sat, folds forward
		rec("b", "A", "2010-01-10"), // Sun, folds forward
		rec("c", "A", "2010-01-11"), // Mon
	}, series.UpdateOptions{
		DateLayout:          timegrid.DayLayout,
		ReplaceExisting:     true,
		RemoveWeekdays:      []time.Weekday{time.Saturday, time.Sunday},
		RedistributeOffsets: []int{2, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 1, 1, 1, 3}, colOf(t, got, "A"),
		"both weekend submissions folded into Monday")
	assert.Equal(t, "2010-01-11", got.Calendar().Last().Label)
	for i := 0; i < got.Calendar().Len(); i++ {
		wd := got.Calendar().Row(i).Weekday
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}

	// Parameter validation fires before any work.
	_, err = s.Update([]aggregate.Record{rec("a", "A", "2010-01-09")},
		series.UpdateOptions{
			DateLayout:          timegrid.DayLayout,
			ReplaceExisting:     true,
			RemoveWeekdays:      []time.Weekday{time.Saturday},
			RedistributeOffsets: []int{1, 2},
		})
	assert.ErrorIs(t, err, aggregate.ErrRedistributionSpec)
}

// TestWith_LayerReplacement covers publishing detection output back into
// a container.
func TestWith_LayerReplacement(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2, 3})

	alarms, err := matrix.NewCube(3, 1, 1, 0)
	require.NoError(t, err)
	require.NoError(t, alarms.Set(2, 0, 0, 1))

	scored, err := s.With(series.WithAlarms(alarms))
	require.NoError(t, err)
	require.NotNil(t, scored.Alarms())
	v, err := scored.Alarms().At(2, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Nil(t, s.Alarms(), "original container untouched")

	bad, err := matrix.NewCube(2, 1, 1, 0)
	require.NoError(t, err)
	_, err = s.With(series.WithAlarms(bad))
	assert.ErrorIs(t, err, series.ErrInvariant)
}

// TestAccessors_CopySemantics ensures accessor results do not alias the
// container's internal state.
func TestAccessors_CopySemantics(t *testing.T) {
	s := dailySeries(t, day(2010, 1, 1), "A", []float64{1, 2})

	c := s.Counts()
	require.NoError(t, c.Set(0, 0, 99))
	assert.Equal(t, []float64{1, 2}, colOf(t, s, "A"))

	g := s.Groups()
	g[0] = "mutated"
	assert.Equal(t, []string{"A"}, s.Groups())
}
