package backtest

import (
	"sync"

	"go.uber.org/zap"

	"DrawdownLens/internal/calculator"
	"DrawdownLens/internal/model"
)

// Engine runs the drawdown/recovery backtest over a price series.
type Engine struct {
	Thresholds    []int
	HighWindow    int // trailing-high window in bars
	ForwardWindow int // outcome search window in bars
	Workers       int
	Logger        *zap.Logger
}

// NewEngine creates an Engine with the default 52-week windows.
func NewEngine(thresholds []int, workers int, logger *zap.Logger) *Engine {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Thresholds:    thresholds,
		HighWindow:    calculator.TradingDaysPerYear,
		ForwardWindow: ForwardWindow,
		Workers:       workers,
		Logger:        logger,
	}
}

// Run computes one ThresholdSummary per configured threshold, in threshold order.
// records must be the RollingHighs of bars.
func (e *Engine) Run(bars []model.Bar, records []model.RollingHighRecord, gain float64) []model.ThresholdSummary {
	summaries := make([]model.ThresholdSummary, len(e.Thresholds))

	workers := e.Workers
	if workers <= 1 || len(e.Thresholds) < 2 {
		for i, t := range e.Thresholds {
			summaries[i] = e.evaluateThreshold(bars, records, t, gain)
		}
		return summaries
	}
	if workers > len(e.Thresholds) {
		workers = len(e.Thresholds)
	}

	var wg sync.WaitGroup
	jobs := make(chan int, len(e.Thresholds))
	for range workers {
		wg.Go(func() {
			for idx := range jobs {
				summaries[idx] = e.evaluateThreshold(bars, records, e.Thresholds[idx], gain)
			}
		})
	}
	for i := range e.Thresholds {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return summaries
}

func (e *Engine) evaluateThreshold(bars []model.Bar, records []model.RollingHighRecord, threshold int, gain float64) model.ThresholdSummary {
	entries := DetectCrossings(bars, records, threshold)
	outcomes := make([]model.Outcome, 0, len(entries))
	for _, entry := range entries {
		o, err := EvaluateOutcome(entry, bars, gain, e.ForwardWindow)
		if err != nil {
			e.Logger.Debug("entry dropped",
				zap.Int("threshold", threshold),
				zap.Int("index", entry.Index),
				zap.Error(err))
			continue
		}
		outcomes = append(outcomes, o)
	}
	return Summarize(threshold, outcomes)
}
