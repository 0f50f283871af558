package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"DrawdownLens/internal/model"
)

func gridRows(drops ...float64) []model.PriceLevelRow {
	rows := make([]model.PriceLevelRow, len(drops))
	for i, d := range drops {
		rows[i] = model.PriceLevelRow{DropPct: d, IsGrid: true}
	}
	return rows
}

func drops(rows []model.PriceLevelRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.DropPct
	}
	return out
}

func TestMergeRows_PlacesBetweenGridLevels(t *testing.T) {
	grid := gridRows(0, 5, 10, 15)
	specials := []model.PriceLevelRow{
		{DropPct: 12.5, IsCurrent: true},
		{DropPct: 3, IsLow52w: true},
	}

	out := MergeRows(grid, specials)

	assert.Equal(t, []float64{0, 3, 5, 10, 12.5, 15}, drops(out))
	assert.True(t, out[1].IsLow52w)
	assert.True(t, out[4].IsCurrent)
}

func TestMergeRows_BeyondLastGridLevel(t *testing.T) {
	out := MergeRows(gridRows(0, 5), []model.PriceLevelRow{{DropPct: 90, IsLow52w: true}})

	assert.Equal(t, []float64{0, 5, 90}, drops(out))
	assert.True(t, out[2].IsLow52w)
}

func TestMergeRows_EqualDropFollowsGridRow(t *testing.T) {
	grid := gridRows(0, 5, 10)
	specials := []model.PriceLevelRow{
		{DropPct: 5, IsYearLow: true},
		{DropPct: 5, IsCurrent: true},
	}

	out := MergeRows(grid, specials)

	assert.Equal(t, []float64{0, 5, 5, 5, 10}, drops(out))
	assert.True(t, out[1].IsGrid)
	assert.True(t, out[2].IsYearLow)
	assert.True(t, out[3].IsCurrent)
}

func TestMergeRows_DoesNotModifyInputs(t *testing.T) {
	grid := gridRows(0, 5)
	specials := []model.PriceLevelRow{{DropPct: 7, IsCurrent: true}, {DropPct: 1, IsLow52w: true}}

	_ = MergeRows(grid, specials)

	assert.Equal(t, []float64{0, 5}, drops(grid))
	assert.Equal(t, []float64{7, 1}, drops(specials))
}

func TestMergeRows_Empty(t *testing.T) {
	assert.Empty(t, MergeRows(nil, nil))
	assert.Equal(t, []float64{4}, drops(MergeRows(nil, []model.PriceLevelRow{{DropPct: 4}})))
}

func TestStandardGrid(t *testing.T) {
	summaries := []model.ThresholdSummary{{ThresholdPct: 5, TotalCount: 2}, {ThresholdPct: 85}}

	rows := StandardGrid(200, summaries)

	assert.Len(t, rows, 17)
	assert.Equal(t, 200.0, rows[0].TargetPrice)
	assert.Nil(t, rows[0].Summary)
	assert.Equal(t, 190.0, rows[1].TargetPrice)
	if assert.NotNil(t, rows[1].Summary) {
		assert.Equal(t, 2, rows[1].Summary.TotalCount)
	}
	assert.Nil(t, rows[2].Summary, "no summary for 10%")
	assert.Equal(t, 80.0, rows[16].DropPct)
	assert.Equal(t, 40.0, rows[16].TargetPrice)
}
