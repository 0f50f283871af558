package calculator

import "DrawdownLens/internal/model"

// TradingDaysPerYear is the length of the trailing 52-week window in bars.
const TradingDaysPerYear = 252

// RollingHighs computes the trailing-window high and drawdown for every bar.
// The window covers at most `window` bars ending at the current one and is
// clipped at the start of the series, so short histories use all bars seen
// so far. A monotonic deque of indices keeps the scan linear.
func RollingHighs(bars []model.Bar, window int) []model.RollingHighRecord {
	if window <= 0 {
		window = TradingDaysPerYear
	}
	records := make([]model.RollingHighRecord, len(bars))
	// deque holds indices whose highs are strictly decreasing front to back.
	deque := make([]int, 0, window)

	for i, b := range bars {
		for len(deque) > 0 && bars[deque[len(deque)-1]].High <= b.High {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		if deque[0] <= i-window {
			deque = deque[1:]
		}

		high := bars[deque[0]].High
		records[i] = model.RollingHighRecord{TrailingHigh: high}
		if high > 0 {
			dd := (b.Close - high) / high
			if dd > 0 {
				// close above the recorded high only happens on bad data
				dd = 0
			}
			records[i].DrawdownPct = dd
		}
	}
	return records
}
