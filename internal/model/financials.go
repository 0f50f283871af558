package model

import "time"

// QuarterlyFinancials holds the most recent reported quarter.
type QuarterlyFinancials struct {
	QuarterEnd      time.Time `json:"quarter_end"`
	OperatingIncome *float64  `json:"operating_income,omitempty"`
	NetIncome       *float64  `json:"net_income,omitempty"`
}

// Symbol is one entry of the ticker directory used for autocomplete.
type Symbol struct {
	Ticker   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
}
