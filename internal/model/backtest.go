package model

import "time"

// RollingHighRecord is derived per bar from the trailing 52-week window.
type RollingHighRecord struct {
	TrailingHigh float64
	DrawdownPct  float64 // (close - high) / high, always <= 0
}

// EntryPoint is the first bar of an excursion below a drawdown threshold.
type EntryPoint struct {
	Index        int
	Date         time.Time
	Price        float64
	ThresholdPct int // 20 means -20%
}

// Outcome is the forward-looking result of buying at an EntryPoint.
type Outcome struct {
	Achieved      bool
	DaysToAchieve *int
}

// ThresholdSummary aggregates all outcomes at one drawdown level.
type ThresholdSummary struct {
	ThresholdPct         int      `json:"drawdown"`
	SuccessRatePct       float64  `json:"successRate"`
	SuccessCount         int      `json:"successCases"`
	FailureCount         int      `json:"failureCases"`
	TotalCount           int      `json:"totalCases"`
	AverageDaysToAchieve *float64 `json:"avgDays"`
}
