package report

import (
	"DrawdownLens/internal/backtest"
	"DrawdownLens/internal/model"
)

// Grid bounds for the standard ladder: 0% then 5%..80%.
const (
	GridStep   = 5
	GridMaxPct = 80
)

// StandardGrid builds the 5%-step ladder below the 52-week high and attaches
// the matching threshold summary to every level except 0%.
func StandardGrid(high52w float64, summaries []model.ThresholdSummary) []model.PriceLevelRow {
	byThreshold := make(map[int]model.ThresholdSummary, len(summaries))
	for _, s := range summaries {
		byThreshold[s.ThresholdPct] = s
	}

	rows := make([]model.PriceLevelRow, 0, GridMaxPct/GridStep+1)
	rows = append(rows, model.PriceLevelRow{
		DropPct:     0,
		TargetPrice: backtest.Round(high52w, 2),
		IsGrid:      true,
	})
	for drop := GridStep; drop <= GridMaxPct; drop += GridStep {
		row := model.PriceLevelRow{
			DropPct:     float64(drop),
			TargetPrice: backtest.Round(high52w*(1-float64(drop)/100), 2),
			IsGrid:      true,
		}
		if s, ok := byThreshold[drop]; ok {
			s := s
			row.Summary = &s
		}
		rows = append(rows, row)
	}
	return rows
}

// specialRow expresses price as a ladder row measured from high52w.
func specialRow(price, high52w float64) model.PriceLevelRow {
	return model.PriceLevelRow{
		DropPct:     dropFromHigh(price, high52w),
		TargetPrice: backtest.Round(price, 2),
	}
}
