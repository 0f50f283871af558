package calculator

import (
	"errors"
	"fmt"

	"DrawdownLens/internal/model"
)

const (
	// MA200Period is the long moving-average length shown in the headline.
	MA200Period = 200
	// RSIPeriod is the Wilder RSI length shown in the headline.
	RSIPeriod = 14
)

// ErrNotEnoughBars is returned when a series is too short for an indicator.
var ErrNotEnoughBars = errors.New("not enough bars")

// CalculateSMA averages the last period values of prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("sma period %d must be positive", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("sma(%d) over %d prices: %w", period, len(prices), ErrNotEnoughBars)
	}
	var sum float64
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// CalculateMA200 returns the 200-day simple moving average of closes.
func CalculateMA200(bars []model.Bar) (float64, error) {
	if len(bars) < MA200Period {
		return 0, fmt.Errorf("ma200 over %d bars: %w", len(bars), ErrNotEnoughBars)
	}
	closes := make([]float64, 0, MA200Period)
	for _, b := range bars[len(bars)-MA200Period:] {
		closes = append(closes, b.Close)
	}
	return CalculateSMA(closes, MA200Period)
}

// CalculateRSI computes the Wilder-smoothed RSI of closes. The first period
// changes seed the averages; every later change is folded in with weight
// 1/period. Requires at least period+1 bars.
func CalculateRSI(bars []model.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("rsi period %d must be positive", period)
	}
	if len(bars) <= period {
		return 0, ErrNotEnoughBars
	}

	n := float64(period)
	var up, down float64
	for i := 1; i < len(bars); i++ {
		delta := bars[i].Close - bars[i-1].Close
		gain, loss := max(delta, 0), max(-delta, 0)
		if i <= period {
			up += gain / n
			down += loss / n
			continue
		}
		up = (up*(n-1) + gain) / n
		down = (down*(n-1) + loss) / n
	}

	if down == 0 {
		return 100, nil
	}
	return 100 - 100/(1+up/down), nil
}
