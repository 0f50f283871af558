package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"DrawdownLens/internal/model"
)

// ErrEmptySeries is returned for calculations that need at least one bar.
var ErrEmptySeries = errors.New("no daily bars provided")

// trailing returns the last window bars, or all of them.
func trailing(bars []model.Bar, window int) []model.Bar {
	if window > 0 && len(bars) > window {
		return bars[len(bars)-window:]
	}
	return bars
}

// Calculate52WeekRange returns the highest High and lowest Low over the last
// 252 bars. Shorter series use everything available.
func Calculate52WeekRange(bars []model.Bar) (high, low float64, err error) {
	return RangeOver(bars, TradingDaysPerYear)
}

// RangeOver returns the highest High and lowest Low over the last window bars.
func RangeOver(bars []model.Bar, window int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrEmptySeries
	}
	high, low = math.Inf(-1), math.Inf(1)
	for _, b := range trailing(bars, window) {
		high = max(high, b.High)
		low = min(low, b.Low)
	}
	return high, low, nil
}

// CalculateYearLow returns the lowest close on or after January 1st of the
// year containing now. ok is false when the series has no bar in that year.
func CalculateYearLow(dailyBars []model.Bar, now time.Time) (low float64, ok bool) {
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	low = math.Inf(1)
	for i := len(dailyBars) - 1; i >= 0; i-- {
		b := dailyBars[i]
		d := time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(startOfYear) {
			break
		}
		if b.Close < low {
			low = b.Close
		}
		ok = true
	}
	if !ok {
		return 0, false
	}
	return low, true
}

// DrawdownFromHigh expresses price as a percentage decline from high.
// Prices above the high clamp to 0.
func DrawdownFromHigh(price, high float64) float64 {
	if high <= 0 {
		return 0
	}
	dd := (1 - price/high) * 100
	if dd < 0 {
		return 0
	}
	return dd
}

// Calculate52WeekPosition places current within [low, high] as a fraction,
// clamped to 0..1. A flat range sits at the midpoint.
func Calculate52WeekPosition(current, high, low float64) (float64, error) {
	switch {
	case high < low:
		return 0, fmt.Errorf("52-week high %.2f below low %.2f", high, low)
	case high == low:
		return 0.5, nil
	}
	return min(max((current-low)/(high-low), 0), 1), nil
}
