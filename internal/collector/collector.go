package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"DrawdownLens/internal/model"
	"DrawdownLens/internal/store"
)

// DefaultHistoryStart is the first date requested from providers.
var DefaultHistoryStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Collector fetches daily history for one symbol, sanitizes it, and keeps a
// copy in the bar cache.
type Collector struct {
	Fetcher  Fetcher
	Store    store.Store
	Start    time.Time
	CacheTTL time.Duration
	Now      func() time.Time
	Logger   *zap.Logger
}

// NewCollector creates a new Collector. A nil store disables caching.
func NewCollector(fetcher Fetcher, st store.Store, start time.Time, ttl time.Duration, logger *zap.Logger) *Collector {
	if st == nil {
		st = store.NoopStore{}
	}
	if start.IsZero() {
		start = DefaultHistoryStart
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		Fetcher:  fetcher,
		Store:    st,
		Start:    start,
		CacheTTL: ttl,
		Now:      time.Now,
		Logger:   logger,
	}
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Collect returns the price series for symbol. A fresh cache entry is served
// without contacting the provider; a stale one is served only when the
// provider fails.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, &model.ValidationError{Field: "ticker", Reason: "must not be empty"}
	}
	now := c.Now()
	log := c.Logger.With(zap.String("symbol", symbol), zap.String("provider", c.Fetcher.Name()))

	cached, err := c.Store.LoadSeries(ctx, symbol)
	if err != nil {
		log.Warn("bar cache read failed", zap.Error(err))
		cached = nil
	}
	if cached.Len() > 0 && c.CacheTTL > 0 && now.Sub(cached.FetchedAt) < c.CacheTTL {
		log.Debug("serving cached bars", zap.Int("bars", cached.Len()))
		return cached, nil
	}

	raw, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Start, now)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if cached.Len() > 0 {
			log.Warn("provider failed, serving stale cache", zap.Error(err), zap.Time("fetched_at", cached.FetchedAt))
			return cached, nil
		}
		return nil, model.NewDataUnavailable(symbol, fmt.Errorf("fetch daily bars: %w", err))
	}

	bars := Sanitize(raw)
	if dropped := len(raw) - len(bars); dropped > 0 {
		log.Debug("dropped unusable bars", zap.Int("dropped", dropped))
	}
	if len(bars) == 0 {
		return nil, model.NewDataUnavailable(symbol, nil)
	}

	series := &model.PriceSeries{
		Symbol:    symbol,
		Name:      c.resolveName(ctx, symbol, cached),
		Bars:      bars,
		FetchedAt: now,
	}
	if err := c.Store.SaveSeries(ctx, series); err != nil {
		log.Warn("bar cache write failed", zap.Error(err))
	}
	log.Info("price history fetched", zap.Int("bars", len(bars)))
	return series, nil
}

func (c *Collector) resolveName(ctx context.Context, symbol string, cached *model.PriceSeries) string {
	nf, ok := c.Fetcher.(NameFetcher)
	if !ok {
		return ""
	}
	name, err := nf.FetchName(ctx, symbol)
	if err != nil {
		c.Logger.Warn("company name lookup failed", zap.String("symbol", symbol), zap.Error(err))
		if cached != nil {
			return cached.Name
		}
		return ""
	}
	return name
}

// Financials returns the latest quarterly results when the provider supports
// them, or nil otherwise.
func (c *Collector) Financials(ctx context.Context, symbol string) (*model.QuarterlyFinancials, error) {
	ff, ok := c.Fetcher.(FinancialsFetcher)
	if !ok {
		return nil, nil
	}
	fin, err := ff.FetchQuarterlyFinancials(ctx, NormalizeSymbol(symbol))
	if err != nil {
		return nil, fmt.Errorf("fetch quarterly financials: %w", err)
	}
	return fin, nil
}

// Sanitize drops bars without a usable close, repairs inconsistent high/low
// values, sorts by date and keeps the last bar reported for each day. The
// input is not modified.
func Sanitize(raw []model.Bar) []model.Bar {
	bars := make([]model.Bar, 0, len(raw))
	for _, b := range raw {
		if !(b.Close > 0) || math.IsInf(b.Close, 0) {
			continue
		}
		b.Date = dayOf(b.Date)
		if !(b.Open > 0) {
			b.Open = b.Close
		}
		b.High = math.Max(b.High, math.Max(b.Open, b.Close))
		if !(b.Low > 0) || b.Low > math.Min(b.Open, b.Close) {
			b.Low = math.Min(b.Open, b.Close)
		}
		if b.Volume < 0 {
			b.Volume = 0
		}
		bars = append(bars, b)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// dayOf truncates t to its calendar date in UTC.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
