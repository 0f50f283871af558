package store

import (
	"context"
	"time"

	"DrawdownLens/internal/model"
)

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func (NoopStore) LoadSeries(context.Context, string) (*model.PriceSeries, error) { return nil, nil }
func (NoopStore) SaveSeries(context.Context, *model.PriceSeries) error           { return nil }
func (NoopStore) Prune(context.Context, time.Time) (int64, error)                { return 0, nil }
func (NoopStore) Close() error                                                   { return nil }
