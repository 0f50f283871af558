package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"DrawdownLens/internal/backtest"
	"DrawdownLens/internal/collector"
	"DrawdownLens/internal/config"
	"DrawdownLens/internal/report"
	"DrawdownLens/internal/service"
	"DrawdownLens/internal/store"
)

// newFetcher picks the price provider named in data_source.provider.
func newFetcher(cfg *config.Config, logger *zap.Logger) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case "alpaca":
		return collector.NewAlpacaFetcher(ds.Alpaca.APIKey, ds.Alpaca.APISecret, ds.Alpaca.BaseURL, ds.Alpaca.Feed)
	case "mock":
		return &collector.MockFetcher{Price: 100, Days: 1500, Company: "Mock Corp"}
	default:
		return collector.NewYahooFetcher(cfg.Proxy,
			collector.WithYahooRateLimit(ds.RateLimit),
			collector.WithYahooRetries(ds.MaxRetries, time.Second),
			collector.WithYahooLogger(logger),
		)
	}
}

// newStore opens the SQLite bar cache, falling back to a no-op store.
func newStore(cfg *config.Config, logger *zap.Logger) store.Store {
	if cfg.Database.Disabled || cfg.Database.SQLitePath == "" {
		return store.NoopStore{}
	}
	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath, logger)
	if err != nil {
		logger.Warn("init sqlite store failed, using noop", zap.Error(err))
		return store.NoopStore{}
	}
	return st
}

// newAnalyzer assembles the collector, engine and presenter.
func newAnalyzer(cfg *config.Config, st store.Store, logger *zap.Logger) (*service.Analyzer, error) {
	a := cfg.Analysis
	thresholds, err := backtest.Thresholds(a.ThresholdFrom, a.ThresholdTo, a.ThresholdStep)
	if err != nil {
		return nil, fmt.Errorf("analysis thresholds: %w", err)
	}
	start, err := cfg.HistoryStartDate()
	if err != nil {
		return nil, err
	}

	engine := backtest.NewEngine(thresholds, a.Workers, logger)
	engine.ForwardWindow = a.ForwardWindow

	fetcher := newFetcher(cfg, logger)
	logger.Info("data source ready", zap.String("provider", fetcher.Name()))

	col := collector.NewCollector(fetcher, st, start, cfg.DataSource.CacheTTL, logger)
	return service.NewAnalyzer(col, report.NewPresenter(engine, logger), logger), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
