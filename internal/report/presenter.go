package report

import (
	"time"

	"go.uber.org/zap"

	"DrawdownLens/internal/backtest"
	"DrawdownLens/internal/calculator"
	"DrawdownLens/internal/model"
)

// Presenter turns a price series into the drawdown ladder report.
type Presenter struct {
	Engine *backtest.Engine
	Now    func() time.Time
	Logger *zap.Logger
}

// NewPresenter creates a Presenter using the wall clock.
func NewPresenter(engine *backtest.Engine, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Presenter{Engine: engine, Now: time.Now, Logger: logger}
}

func dropFromHigh(price, high float64) float64 {
	return calculator.DrawdownFromHigh(price, high)
}

// ComputeReport builds the headline and ordered price-level rows for series at
// the given target gain percentage.
func (p *Presenter) ComputeReport(series *model.PriceSeries, targetGainPct float64) (*model.Report, error) {
	if err := ValidateTargetGain(targetGainPct); err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, model.NewDataUnavailable(seriesSymbol(series), nil)
	}

	bars := series.Bars
	now := p.Now()
	_, low52w, err := calculator.RangeOver(bars, p.Engine.HighWindow)
	if err != nil {
		return nil, model.NewDataUnavailable(series.Symbol, err)
	}
	current := series.Last().Close

	records := calculator.RollingHighs(bars, p.Engine.HighWindow)
	high52w := records[len(records)-1].TrailingHigh
	summaries := p.Engine.Run(bars, records, targetGainPct/100)

	currentRow := specialRow(current, high52w)
	currentRow.IsCurrent = true

	lowRow := specialRow(low52w, high52w)
	lowRow.IsLow52w = true

	yearLow, ok := calculator.CalculateYearLow(bars, now)
	if !ok {
		yearLow = high52w
	}
	yearLowRow := specialRow(yearLow, high52w)
	yearLowRow.IsYearLow = true

	rows := MergeRows(StandardGrid(high52w, summaries),
		[]model.PriceLevelRow{currentRow, lowRow, yearLowRow})

	headline := model.Headline{
		Symbol:             series.Symbol,
		Name:               series.DisplayName(),
		StockHigh52w:       high52w,
		CurrentPrice:       current,
		CurrentDrawdownPct: currentRow.DropPct,
		Low52w:             low52w,
		YearLow:            yearLow,
		Context:            p.context(bars, current),
	}
	if pos, err := calculator.Calculate52WeekPosition(current, high52w, low52w); err == nil {
		headline.Position52w = pos
	}

	return &model.Report{
		Headline:      headline,
		TargetGainPct: targetGainPct,
		AsOf:          series.Last().Date,
		Rows:          rows,
	}, nil
}

// ComputeSuccessRateTable runs only the per-threshold analysis, without the
// presentation merge.
func (p *Presenter) ComputeSuccessRateTable(series *model.PriceSeries, targetGainPct float64) (*model.SuccessRateTable, error) {
	if err := ValidateTargetGain(targetGainPct); err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, model.NewDataUnavailable(seriesSymbol(series), nil)
	}

	bars := series.Bars
	records := calculator.RollingHighs(bars, p.Engine.HighWindow)
	summaries := p.Engine.Run(bars, records, targetGainPct/100)

	closePrice := backtest.Round(series.Last().Close, 2)
	high := backtest.Round(records[len(records)-1].TrailingHigh, 2)
	var drawdown float64
	if high > 0 {
		drawdown = backtest.Round((closePrice-high)/high*100, 2)
	}

	return &model.SuccessRateTable{
		Ticker:             series.Symbol,
		TargetRatePct:      targetGainPct,
		CurrentPrice:       closePrice,
		CurrentHigh:        high,
		CurrentDrawdownPct: drawdown,
		Results:            summaries,
	}, nil
}

func (p *Presenter) context(bars []model.Bar, current float64) *model.MarketIndicators {
	ind := &model.MarketIndicators{}
	if ma, err := calculator.CalculateMA200(bars); err != nil {
		p.Logger.Warn("MA200 unavailable", zap.Error(err))
	} else {
		dev := backtest.Round((current-ma)/ma*100, 2)
		ind.MA200 = &ma
		ind.MA200DevPct = &dev
	}
	if rsi, err := calculator.CalculateRSI(bars, calculator.RSIPeriod); err != nil {
		p.Logger.Warn("daily RSI unavailable", zap.Error(err))
	} else {
		ind.DailyRSI = &rsi
	}
	if ind.MA200 == nil && ind.DailyRSI == nil {
		return nil
	}
	return ind
}

func seriesSymbol(s *model.PriceSeries) string {
	if s == nil {
		return ""
	}
	return s.Symbol
}
