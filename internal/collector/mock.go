package collector

import (
	"context"
	"time"

	"DrawdownLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price      float64
	Days       int
	DailyData  []model.Bar
	Company    string
	Financials *model.QuarterlyFinancials
	Err        error

	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, _, end time.Time) ([]model.Bar, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	days := m.Days
	if days == 0 {
		days = 300
	}
	return generateMockBars(m.Price, days, end), nil
}

func (m *MockFetcher) FetchName(_ context.Context, _ string) (string, error) {
	return m.Company, nil
}

func (m *MockFetcher) FetchQuarterlyFinancials(_ context.Context, _ string) (*model.QuarterlyFinancials, error) {
	return m.Financials, nil
}

// generateMockBars produces count consecutive days ending the day before end,
// trending gently upward around basePrice.
func generateMockBars(basePrice float64, count int, end time.Time) []model.Bar {
	if basePrice <= 0 {
		basePrice = 100
	}
	last := dayOf(end)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   last.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
