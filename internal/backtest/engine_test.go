package backtest

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ScenarioA_StrictlyIncreasing(t *testing.T) {
	specs := make([]barSpec, 400)
	for i := range specs {
		p := 100 + float64(i)
		specs[i] = barSpec{p, p}
	}
	summaries := runAll(NewEngine(nil, 1, nil), buildBars(specs), 0.05)

	require.Len(t, summaries, len(DefaultThresholds))
	for _, s := range summaries {
		assert.Equalf(t, 0, s.TotalCount, "threshold %d", s.ThresholdPct)
		assert.Equal(t, 0.0, s.SuccessRatePct)
		assert.Nil(t, s.AverageDaysToAchieve)
	}
}

func TestEngine_ScenarioB_Recovers(t *testing.T) {
	summaries := runAll(NewEngine(nil, 1, nil), scenarioB(), 0.20)

	s := summaryFor(summaries, 20)
	assert.Equal(t, 1, s.TotalCount)
	assert.Equal(t, 1, s.SuccessCount)
	assert.Equal(t, 100.0, s.SuccessRatePct)
	require.NotNil(t, s.AverageDaysToAchieve)
	assert.Equal(t, 30.0, *s.AverageDaysToAchieve)

	assert.Equal(t, 0, summaryFor(summaries, 25).TotalCount)
}

func TestEngine_ScenarioC_NeverRecovers(t *testing.T) {
	bars := buildBars(concat(repeat(10, 100, 100), repeat(100, 80, 80)))
	s := summaryFor(runAll(NewEngine(nil, 1, nil), bars, 0.20), 20)

	assert.Equal(t, 1, s.TotalCount)
	assert.Equal(t, 0, s.SuccessCount)
	assert.Equal(t, 1, s.FailureCount)
	assert.Equal(t, 0.0, s.SuccessRatePct)
	assert.Nil(t, s.AverageDaysToAchieve)
}

func randomWalk(n int, seed int64) []barSpec {
	rng := rand.New(rand.NewSource(seed))
	specs := make([]barSpec, n)
	p := 50.0
	for i := range specs {
		p *= 1 + (rng.Float64()-0.5)*0.08
		specs[i] = barSpec{p * (1 + rng.Float64()*0.03), p}
	}
	return specs
}

func TestEngine_InvariantsOnRandomWalk(t *testing.T) {
	bars := buildBars(randomWalk(1500, 7))
	for _, gain := range []float64{0.01, 0.05, 0.2, 1.0} {
		for _, s := range runAll(NewEngine(nil, 4, nil), bars, gain) {
			assert.Equal(t, s.TotalCount, s.SuccessCount+s.FailureCount)
			if s.TotalCount == 0 {
				assert.Equal(t, 0.0, s.SuccessRatePct)
			}
			if s.AverageDaysToAchieve != nil {
				assert.LessOrEqual(t, *s.AverageDaysToAchieve, float64(ForwardWindow))
				assert.GreaterOrEqual(t, *s.AverageDaysToAchieve, 1.0)
			}
		}
	}
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	bars := buildBars(randomWalk(1200, 99))

	seq := runAll(NewEngine(nil, 1, nil), bars, 0.1)
	par := runAll(NewEngine(nil, 8, nil), bars, 0.1)

	assert.Equal(t, seq, par)
}
