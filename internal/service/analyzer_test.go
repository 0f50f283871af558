package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawdownLens/internal/backtest"
	"DrawdownLens/internal/collector"
	"DrawdownLens/internal/model"
	"DrawdownLens/internal/report"
)

var testNow = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func newTestAnalyzer(f *collector.MockFetcher) *Analyzer {
	c := collector.NewCollector(f, nil, time.Time{}, 0, nil)
	c.Now = func() time.Time { return testNow }
	p := report.NewPresenter(backtest.NewEngine(nil, 2, nil), nil)
	p.Now = func() time.Time { return testNow }
	return NewAnalyzer(c, p, nil)
}

func TestAnalyze(t *testing.T) {
	ni := 2.5e9
	f := &collector.MockFetcher{
		Price:      100,
		Days:       400,
		Company:    "Mock Corp",
		Financials: &model.QuarterlyFinancials{QuarterEnd: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), NetIncome: &ni},
	}
	a := newTestAnalyzer(f)

	res, err := a.Analyze(context.Background(), "mock", 20)
	require.NoError(t, err)

	assert.Equal(t, "MOCK", res.Report.Headline.Symbol)
	assert.Equal(t, "Mock Corp", res.Report.Headline.Name)
	assert.Equal(t, 20.0, res.Report.TargetGainPct)
	assert.NotEmpty(t, res.Report.Rows)
	require.NotNil(t, res.Report.Headline.Context)
	assert.NotNil(t, res.Report.Headline.Context.MA200)
	require.NotNil(t, res.Financials)
	assert.Equal(t, ni, *res.Financials.NetIncome)
}

func TestAnalyze_ValidationBeforeFetch(t *testing.T) {
	f := &collector.MockFetcher{Price: 100}
	a := newTestAnalyzer(f)

	for _, gain := range []float64{0, 150} {
		_, err := a.Analyze(context.Background(), "AAPL", gain)
		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
	_, err := a.SuccessRates(context.Background(), "", 20)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.Zero(t, f.Calls)
}

func TestAnalyze_DataUnavailable(t *testing.T) {
	f := &collector.MockFetcher{DailyData: []model.Bar{}}
	a := newTestAnalyzer(f)

	_, err := a.Analyze(context.Background(), "GONE", 20)
	var derr *model.DataUnavailableError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "GONE", derr.Symbol)
}

func TestAnalyze_ProviderError(t *testing.T) {
	a := newTestAnalyzer(&collector.MockFetcher{Err: errors.New("timeout")})

	_, err := a.SuccessRates(context.Background(), "AAPL", 20)
	var derr *model.DataUnavailableError
	assert.ErrorAs(t, err, &derr)
}

func TestSuccessRates(t *testing.T) {
	a := newTestAnalyzer(&collector.MockFetcher{Price: 50, Days: 300})

	tbl, err := a.SuccessRates(context.Background(), "aapl", 10)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", tbl.Ticker)
	assert.Equal(t, 10.0, tbl.TargetRatePct)
	assert.Len(t, tbl.Results, len(backtest.DefaultThresholds))
	assert.LessOrEqual(t, tbl.CurrentDrawdownPct, 0.0)
}
