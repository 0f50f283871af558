package backtest

import "DrawdownLens/internal/model"

// DetectCrossings returns, in chronological order, every bar where the
// drawdown first falls to or below -thresholdPct% after having been above it
// on the previous bar. Bar 0 never qualifies.
func DetectCrossings(bars []model.Bar, records []model.RollingHighRecord, thresholdPct int) []model.EntryPoint {
	level := -float64(thresholdPct) / 100
	n := len(records)
	if len(bars) < n {
		n = len(bars)
	}

	var entries []model.EntryPoint
	for i := 1; i < n; i++ {
		if records[i].DrawdownPct <= level && records[i-1].DrawdownPct > level {
			entries = append(entries, model.EntryPoint{
				Index:        i,
				Date:         bars[i].Date,
				Price:        bars[i].Close,
				ThresholdPct: thresholdPct,
			})
		}
	}
	return entries
}
