// Package service runs one drawdown analysis request end to end.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"DrawdownLens/internal/collector"
	"DrawdownLens/internal/model"
	"DrawdownLens/internal/report"
)

// SeriesSource supplies price history and optional enrichment for a ticker.
type SeriesSource interface {
	Collect(ctx context.Context, symbol string) (*model.PriceSeries, error)
	Financials(ctx context.Context, symbol string) (*model.QuarterlyFinancials, error)
}

// Analysis is a full report plus best-effort enrichment.
type Analysis struct {
	Report     *model.Report              `json:"report"`
	Financials *model.QuarterlyFinancials `json:"financials,omitempty"`
}

// Analyzer validates a request, fetches history and computes the report.
type Analyzer struct {
	Source    SeriesSource
	Presenter *report.Presenter
	Logger    *zap.Logger

	// FinancialsTimeout bounds the enrichment call so a slow endpoint cannot
	// hold up the report.
	FinancialsTimeout time.Duration
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(source SeriesSource, presenter *report.Presenter, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		Source:            source,
		Presenter:         presenter,
		Logger:            logger,
		FinancialsTimeout: 10 * time.Second,
	}
}

// Analyze produces the price-level report for ticker at targetGainPct.
// Validation happens before any fetch.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, targetGainPct float64) (*Analysis, error) {
	series, err := a.prepare(ctx, ticker, targetGainPct)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rep, err := a.Presenter.ComputeReport(series, targetGainPct)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("analysis complete",
		zap.String("symbol", series.Symbol),
		zap.Float64("target_pct", targetGainPct),
		zap.Int("bars", series.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return &Analysis{Report: rep, Financials: a.financials(ctx, series.Symbol)}, nil
}

// SuccessRates produces the per-threshold table without the price ladder.
func (a *Analyzer) SuccessRates(ctx context.Context, ticker string, targetGainPct float64) (*model.SuccessRateTable, error) {
	series, err := a.prepare(ctx, ticker, targetGainPct)
	if err != nil {
		return nil, err
	}
	return a.Presenter.ComputeSuccessRateTable(series, targetGainPct)
}

func (a *Analyzer) prepare(ctx context.Context, ticker string, targetGainPct float64) (*model.PriceSeries, error) {
	if err := report.ValidateTargetGain(targetGainPct); err != nil {
		return nil, err
	}
	symbol := collector.NormalizeSymbol(ticker)
	if symbol == "" {
		return nil, &model.ValidationError{Field: "ticker", Reason: "must not be empty"}
	}
	return a.Source.Collect(ctx, symbol)
}

func (a *Analyzer) financials(ctx context.Context, symbol string) *model.QuarterlyFinancials {
	if a.FinancialsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.FinancialsTimeout)
		defer cancel()
	}
	fin, err := a.Source.Financials(ctx, symbol)
	if err != nil {
		a.Logger.Warn("quarterly financials unavailable", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}
	return fin
}
