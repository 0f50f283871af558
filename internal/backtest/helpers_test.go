package backtest

import (
	"time"

	"DrawdownLens/internal/calculator"
	"DrawdownLens/internal/model"
)

type barSpec struct {
	high, close float64
}

func buildBars(specs []barSpec) []model.Bar {
	start := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(specs))
	for i, s := range specs {
		low := s.close
		if s.high < low {
			low = s.high
		}
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   s.close,
			High:   s.high,
			Low:    low,
			Close:  s.close,
			Volume: 1000,
		}
	}
	return bars
}

func repeat(n int, high, close float64) []barSpec {
	out := make([]barSpec, n)
	for i := range out {
		out[i] = barSpec{high, close}
	}
	return out
}

func concat(parts ...[]barSpec) []barSpec {
	var out []barSpec
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// scenarioB drops from 100 to 80 on day 10 and trades up to a 97 high on day 40.
func scenarioB() []model.Bar {
	return buildBars(concat(
		repeat(10, 100, 100),
		[]barSpec{{80, 80}},
		repeat(29, 81, 80),
		[]barSpec{{97, 96}},
		repeat(20, 96, 95),
	))
}

func runAll(e *Engine, bars []model.Bar, gain float64) []model.ThresholdSummary {
	return e.Run(bars, calculator.RollingHighs(bars, e.HighWindow), gain)
}

func summaryFor(summaries []model.ThresholdSummary, threshold int) model.ThresholdSummary {
	for _, s := range summaries {
		if s.ThresholdPct == threshold {
			return s
		}
	}
	return model.ThresholdSummary{}
}
