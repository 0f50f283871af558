package collector

import (
	"context"
	"time"

	"DrawdownLens/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error)
	Name() string
}

// NameFetcher is implemented by providers that can resolve a company name.
type NameFetcher interface {
	FetchName(ctx context.Context, symbol string) (string, error)
}

// FinancialsFetcher is implemented by providers that expose quarterly results.
type FinancialsFetcher interface {
	FetchQuarterlyFinancials(ctx context.Context, symbol string) (*model.QuarterlyFinancials, error)
}
