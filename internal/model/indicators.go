package model

// MarketIndicators holds optional technical context shown next to the ladder.
// Nil fields mean there was not enough history to compute them.
type MarketIndicators struct {
	MA200       *float64 `json:"ma200,omitempty"`
	MA200DevPct *float64 `json:"ma200_dev_pct,omitempty"`
	DailyRSI    *float64 `json:"daily_rsi,omitempty"`
}
