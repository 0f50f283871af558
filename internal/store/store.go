package store

import (
	"context"
	"time"

	"DrawdownLens/internal/model"
)

// Store caches fetched daily price history per symbol. It holds provider
// input only; analysis results are never stored.
type Store interface {
	// LoadSeries returns the cached series, or nil when symbol is not cached.
	LoadSeries(ctx context.Context, symbol string) (*model.PriceSeries, error)
	// SaveSeries replaces the cached bars for series.Symbol.
	SaveSeries(ctx context.Context, series *model.PriceSeries) error
	// Prune removes series fetched before cutoff and reports how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
