package backtest

import (
	"github.com/shopspring/decimal"

	"DrawdownLens/internal/model"
)

// Summarize aggregates the outcomes recorded at one threshold.
func Summarize(thresholdPct int, outcomes []model.Outcome) model.ThresholdSummary {
	s := model.ThresholdSummary{ThresholdPct: thresholdPct, TotalCount: len(outcomes)}

	var daysSum int
	for _, o := range outcomes {
		if o.Achieved && o.DaysToAchieve != nil {
			s.SuccessCount++
			daysSum += *o.DaysToAchieve
		}
	}
	s.FailureCount = s.TotalCount - s.SuccessCount

	if s.TotalCount > 0 {
		s.SuccessRatePct = Round(float64(s.SuccessCount)/float64(s.TotalCount)*100, 1)
	}
	if s.SuccessCount > 0 {
		avg := Round(float64(daysSum)/float64(s.SuccessCount), 1)
		s.AverageDaysToAchieve = &avg
	}
	return s
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
