package model

import "time"

// PriceLevelRow is one line of the drawdown ladder.
type PriceLevelRow struct {
	DropPct     float64           `json:"percent_drop"`
	TargetPrice float64           `json:"target_price"`
	Summary     *ThresholdSummary `json:"summary,omitempty"`
	IsGrid      bool              `json:"is_grid"`
	IsCurrent   bool              `json:"is_current"`
	IsLow52w    bool              `json:"is_low_52w"`
	IsYearLow   bool              `json:"is_year_low"`
}

// Headline summarises where the ticker trades today.
type Headline struct {
	Symbol             string            `json:"symbol"`
	Name               string            `json:"name"`
	StockHigh52w       float64           `json:"stock_high_52w"`
	CurrentPrice       float64           `json:"current_price"`
	CurrentDrawdownPct float64           `json:"current_drawdown_pct"`
	Low52w             float64           `json:"low_52w"`
	YearLow            float64           `json:"year_low"`
	Position52w        float64           `json:"position_52w"` // 0.0 ~ 1.0
	Context            *MarketIndicators `json:"context,omitempty"`
}

// Report is the full presentation result for one ticker and target gain.
type Report struct {
	Headline      Headline        `json:"headline"`
	TargetGainPct float64         `json:"target_gain_pct"`
	AsOf          time.Time       `json:"as_of"`
	Rows          []PriceLevelRow `json:"rows"`
}

// SuccessRateTable is the standalone per-threshold analysis.
type SuccessRateTable struct {
	Ticker             string             `json:"ticker"`
	TargetRatePct      float64            `json:"targetRate"`
	CurrentPrice       float64            `json:"currentPrice"`
	CurrentHigh        float64            `json:"currentHigh"`
	CurrentDrawdownPct float64            `json:"currentDrawdown"`
	Results            []ThresholdSummary `json:"results"`
}
