package aggregate

import (
	"fmt"
	"time"

	"github.com/carolinamerca/vetsyn/timegrid"
)

// RedistributeWeekdays removes the given weekday codes from a daily
// block, folding each removed row's counts into the row addTo days away.
//
// Semantics (order matters and is part of the contract):
//  1. Codes are processed strictly one at a time, in the order given.
//  2. For one code, every matching row i gets a target row i+addTo[k]
//     computed against the block as it stands when that code starts.
//     Occurrences whose target lies within the current bounds have their
//     counts added into the target row first.
//  3. Every matching row is then deleted (and its calendar row with it)
//     before the next code is considered, so later codes see shifted row
//     positions. An occurrence whose target fell out of bounds is thus
//     removed without redistribution: its counts are silently dropped.
//
// Preconditions, checked before any row is touched:
//   - len(remove) == len(addTo) and every code within Sunday..Saturday,
//     else ErrRedistributionSpec.
//   - the block is daily, else ErrNotDaily.
//
// Count conservation: the block total is unchanged whenever no target
// falls out of bounds; otherwise it shrinks by exactly the dropped
// occurrences' counts.
//
// Complexity: O(K*T*G), K = number of codes.
func RedistributeWeekdays(b *Block, remove []time.Weekday, addTo []int) (*Block, error) {
	if len(remove) != len(addTo) {
		return nil, fmt.Errorf("%d weekday codes with %d offsets: %w",
			len(remove), len(addTo), ErrRedistributionSpec)
	}
	for _, wd := range remove {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, fmt.Errorf("weekday code %d: %w", int(wd), ErrRedistributionSpec)
		}
	}
	if b.Grid.Granularity() != timegrid.Daily {
		return nil, ErrNotDaily
	}

	counts := b.Counts.Clone()
	grid := b.Grid
	for k, wd := range remove {
		var removed []int
		for i := 0; i < grid.Len(); i++ {
			if grid.Row(i).Weekday != wd {
				continue
			}
			if target := i + addTo[k]; target >= 0 && target < grid.Len() {
				if err := counts.AddRowInto(target, i); err != nil {
					return nil, err
				}
			}
			removed = append(removed, i)
		}
		if len(removed) == 0 {
			continue
		}
		var err error
		if counts, err = counts.DeleteRows(removed); err != nil {
			return nil, err
		}
		if grid, err = grid.Delete(removed); err != nil {
			return nil, err
		}
	}
	return &Block{Counts: counts, Grid: grid, Groups: b.Groups}, nil
}
