package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/carolinamerca/vetsyn/matrix"
	"github.com/carolinamerca/vetsyn/timegrid"
)

// keySep separates key parts; it cannot occur in dates and is vanishingly
// unlikely in identifier or group text.
const keySep = "\x1f"

// event is one parsed raw record, keyed for deduplication.
type event struct {
	key   string // full identifier key + group + time-point label
	group string
	label string // canonical grid label of the event's time point
}

// Span parses every record's date under layout and returns the covered
// [min, max] range.
//
// Errors:
//   - ErrNoRecords when records is empty.
//   - ErrUnknownDateFormat when any date fails to parse.
//
// Complexity: O(N).
func Span(records []Record, layout string) (min, max time.Time, err error) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, ErrNoRecords
	}
	for i, rec := range records {
		d, perr := timegrid.ParseDate(rec.Date, layout)
		if perr != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("record %d date %q under layout %q: %w",
				i, rec.Date, layout, ErrUnknownDateFormat)
		}
		if i == 0 || d.Before(min) {
			min = d
		}
		if i == 0 || d.After(max) {
			max = d
		}
	}
	return min, max, nil
}

// Count converts raw records into a dense count block aligned to grid.
//
// Behavior, per group:
//  1. Select records whose group label is admitted (existing group, or a
//     new one under AddNewGroups; with a nil Groups list every group in
//     the data is admitted).
//  2. Deduplicate on the full identifier key plus time-point label: a
//     given identifier contributes at most one count per date or week.
//  3. Count deduplicated events per grid row; rows with no activity stay
//     zero. Events dated outside the grid are ignored.
//
// New groups are appended after the existing ones, in lexicographic
// order; existing column order is never disturbed.
//
// Errors:
//   - ErrUnknownDateFormat for unparseable dates.
//   - ErrNoRecords when filtering leaves no admitted group at all.
//
// Complexity: O(N + T*G) time, O(N) auxiliary memory.
func Count(records []Record, grid *timegrid.Grid, opts CountOptions) (*Block, error) {
	groups := append([]string(nil), opts.Groups...)
	known := lo.SliceToMap(groups, func(g string) (string, struct{}) { return g, struct{}{} })
	admitAll := opts.Groups == nil

	// Parse once, collecting unseen groups and keyed events.
	fresh := map[string]struct{}{}
	events := make([]event, 0, len(records))
	for i, rec := range records {
		d, err := timegrid.ParseDate(rec.Date, opts.DateLayout)
		if err != nil {
			return nil, fmt.Errorf("record %d date %q under layout %q: %w",
				i, rec.Date, opts.DateLayout, ErrUnknownDateFormat)
		}
		if _, ok := known[rec.Group]; !ok {
			if !admitAll && !opts.AddNewGroups {
				continue // silently dropped group
			}
			fresh[rec.Group] = struct{}{}
		}
		label := gridLabel(d, grid.Granularity())
		id := strings.Join(rec.ID, keySep)
		events = append(events, event{
			key:   id + keySep + rec.Group + keySep + label,
			group: rec.Group,
			label: label,
		})
	}

	// Append unseen groups in a deterministic order.
	added := lo.Keys(fresh)
	sort.Strings(added)
	groups = append(groups, added...)
	if len(groups) == 0 {
		return nil, fmt.Errorf("every record dropped by group filter: %w", ErrNoRecords)
	}

	// One submission per subject per period.
	events = lo.UniqBy(events, func(e event) string { return e.key })

	counts, err := matrix.NewDense(grid.Len(), len(groups))
	if err != nil {
		return nil, err
	}
	col := indexOf(groups)
	for _, e := range events {
		row, ok := grid.Index(e.label)
		if !ok {
			continue // dated outside the grid window
		}
		j, ok := col[e.group]
		if !ok {
			continue // dropped group
		}
		v, _ := counts.At(row, j)
		if err := counts.Set(row, j, v+1); err != nil {
			return nil, err
		}
	}
	return &Block{Counts: counts, Grid: grid, Groups: groups}, nil
}

// indexOf maps each group name to its column position.
func indexOf(groups []string) map[string]int {
	out := make(map[string]int, len(groups))
	for i, g := range groups {
		out[g] = i
	}
	return out
}

// gridLabel formats the canonical grid label of d at the given granularity.
func gridLabel(d time.Time, gran timegrid.Granularity) string {
	if gran == timegrid.Weekly {
		return timegrid.WeekLabel(d)
	}
	return d.Format(timegrid.DayLayout)
}
