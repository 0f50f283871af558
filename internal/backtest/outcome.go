package backtest

import (
	"fmt"

	"DrawdownLens/internal/model"
)

// ForwardWindow is the maximum number of bars scanned after an entry. Larger
// windows are capped to it.
const ForwardWindow = 252

// EvaluateOutcome scans up to window bars strictly after the entry for the
// first high reaching entry price * (1 + gain). DaysToAchieve is the index
// distance between that bar and the entry. An entry on the final bar, or with
// no qualifying bar, is not achieved.
func EvaluateOutcome(entry model.EntryPoint, bars []model.Bar, gain float64, window int) (model.Outcome, error) {
	if entry.Index < 0 || entry.Index >= len(bars) {
		return model.Outcome{}, fmt.Errorf("entry %d of %d bars: %w", entry.Index, len(bars), model.ErrEntryOutOfRange)
	}
	if window <= 0 || window > ForwardWindow {
		window = ForwardWindow
	}

	target := entry.Price * (1 + gain)
	last := entry.Index + window
	if last > len(bars)-1 {
		last = len(bars) - 1
	}
	for j := entry.Index + 1; j <= last; j++ {
		if bars[j].High >= target {
			days := j - entry.Index
			return model.Outcome{Achieved: true, DaysToAchieve: &days}, nil
		}
	}
	return model.Outcome{}, nil
}
