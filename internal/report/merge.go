package report

import (
	"cmp"
	"slices"

	"DrawdownLens/internal/model"
)

func byDrop(a, b model.PriceLevelRow) int {
	return cmp.Compare(a.DropPct, b.DropPct)
}

// MergeRows places each special row immediately after the last grid row whose
// drop is <= its own, so a special row equal to a grid level is rendered next
// to it rather than replacing it. Specials sharing a drop keep their input
// order. grid must be ascending by drop. Neither input is modified.
func MergeRows(grid, specials []model.PriceLevelRow) []model.PriceLevelRow {
	sp := slices.Clone(specials)
	slices.SortStableFunc(sp, byDrop)

	out := make([]model.PriceLevelRow, 0, len(grid)+len(sp))
	j := 0
	if len(grid) > 0 {
		for j < len(sp) && sp[j].DropPct < grid[0].DropPct {
			out = append(out, sp[j])
			j++
		}
	}
	for i, g := range grid {
		out = append(out, g)
		for j < len(sp) && (i == len(grid)-1 || sp[j].DropPct < grid[i+1].DropPct) {
			out = append(out, sp[j])
			j++
		}
	}
	out = append(out, sp[j:]...)

	slices.SortStableFunc(out, byDrop)
	return out
}
