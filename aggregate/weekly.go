package aggregate

import (
	"github.com/carolinamerca/vetsyn/matrix"
	"github.com/carolinamerca/vetsyn/timegrid"
)

// ToWeekly aggregates a daily block into ISO weeks: counts of all days
// sharing a week are summed into one row keyed by the canonical
// week-start label. Used when the container is weekly but new data
// arrived at daily resolution.
//
// Partial boundary weeks are aggregated from the days present; the
// weekly grid snaps the block bounds to their week starts.
//
// Errors: ErrNotDaily on a weekly input block.
// Complexity: O(T*G).
func ToWeekly(b *Block) (*Block, error) {
	if b.Grid.Granularity() != timegrid.Daily {
		return nil, ErrNotDaily
	}
	weeks, err := timegrid.New(b.Grid.First().Date, b.Grid.Last().Date, timegrid.Weekly)
	if err != nil {
		return nil, err
	}
	counts, err := matrix.NewDense(weeks.Len(), len(b.Groups))
	if err != nil {
		return nil, err
	}
	for i := 0; i < b.Grid.Len(); i++ {
		w, ok := weeks.Index(timegrid.WeekLabel(b.Grid.Row(i).Date))
		if !ok {
			continue // unreachable on a gap-free daily grid
		}
		for j := range b.Groups {
			v, err := b.Counts.At(i, j)
			if err != nil {
				return nil, err
			}
			cur, _ := counts.At(w, j)
			if err := counts.Set(w, j, cur+v); err != nil {
				return nil, err
			}
		}
	}
	return &Block{Counts: counts, Grid: weeks, Groups: b.Groups}, nil
}
