package backtest

import "fmt"

// DefaultThresholds are the drawdown levels analysed when none are configured: 5, 10, ..., 90.
var DefaultThresholds = MustThresholds(5, 90, 5)

// Thresholds builds an ascending list of drawdown levels from..to in step increments.
func Thresholds(from, to, step int) ([]int, error) {
	if step <= 0 {
		return nil, fmt.Errorf("threshold step must be positive, got %d", step)
	}
	if from <= 0 || to >= 100 || from > to {
		return nil, fmt.Errorf("threshold range must satisfy 0 < from <= to < 100, got %d..%d", from, to)
	}
	var out []int
	for t := from; t <= to; t += step {
		out = append(out, t)
	}
	return out, nil
}

// MustThresholds is like Thresholds but panics on an invalid range.
func MustThresholds(from, to, step int) []int {
	out, err := Thresholds(from, to, step)
	if err != nil {
		panic(err)
	}
	return out
}
