package calculator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawdownLens/internal/model"
)

func makeBars(highs, closes []float64) []model.Bar {
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(highs))
	for i := range highs {
		bars[i] = model.Bar{
			Date:  start.AddDate(0, 0, i),
			Open:  closes[i],
			High:  highs[i],
			Low:   closes[i] * 0.99,
			Close: closes[i],
		}
	}
	return bars
}

func naiveHighs(bars []model.Bar, window int) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		h := bars[start].High
		for j := start; j <= i; j++ {
			if bars[j].High > h {
				h = bars[j].High
			}
		}
		out[i] = h
	}
	return out
}

func TestRollingHighs_MatchesNaiveScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 1500
	highs := make([]float64, n)
	closes := make([]float64, n)
	p := 100.0
	for i := 0; i < n; i++ {
		p *= 1 + (rng.Float64()-0.5)*0.06
		closes[i] = p
		highs[i] = p * (1 + rng.Float64()*0.02)
	}
	bars := makeBars(highs, closes)

	got := RollingHighs(bars, TradingDaysPerYear)
	want := naiveHighs(bars, TradingDaysPerYear)

	require.Len(t, got, n)
	for i := range got {
		require.Equalf(t, want[i], got[i].TrailingHigh, "bar %d", i)
		assert.LessOrEqual(t, got[i].DrawdownPct, 0.0)
	}
}

func TestRollingHighs_WindowSlidesDown(t *testing.T) {
	// a spike drops out of a 3-bar window and the trailing high falls
	highs := []float64{10, 50, 10, 10, 10, 12}
	closes := []float64{10, 50, 10, 10, 10, 12}
	got := RollingHighs(makeBars(highs, closes), 3)

	wantHighs := []float64{10, 50, 50, 50, 10, 12}
	for i, w := range wantHighs {
		assert.Equalf(t, w, got[i].TrailingHigh, "bar %d", i)
	}
	assert.InDelta(t, -0.8, got[2].DrawdownPct, 1e-12)
	assert.Equal(t, 0.0, got[5].DrawdownPct)
}

func TestRollingHighs_ShortSeriesUsesWholeHistory(t *testing.T) {
	highs := []float64{100, 90, 80, 70}
	closes := []float64{100, 90, 80, 70}
	got := RollingHighs(makeBars(highs, closes), TradingDaysPerYear)

	for i := range got {
		assert.Equal(t, 100.0, got[i].TrailingHigh)
	}
	assert.InDelta(t, -0.3, got[3].DrawdownPct, 1e-12)
}

func TestRollingHighs_Empty(t *testing.T) {
	assert.Empty(t, RollingHighs(nil, TradingDaysPerYear))
}
