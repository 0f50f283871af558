package model

import "time"

// Bar represents a single trading day.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries holds the daily history fetched for one analysis request.
// Bars are ascending by date with no duplicates and must not be modified
// after construction.
type PriceSeries struct {
	Symbol    string
	Name      string
	Bars      []Bar
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Last returns the most recent bar. It panics on an empty series.
func (s *PriceSeries) Last() Bar {
	return s.Bars[len(s.Bars)-1]
}

// DisplayName returns the company name, falling back to the ticker.
func (s *PriceSeries) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Symbol
}
