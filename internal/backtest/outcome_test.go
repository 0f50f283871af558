package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawdownLens/internal/model"
)

func TestEvaluateOutcome_ScenarioB(t *testing.T) {
	bars := scenarioB()
	entry := model.EntryPoint{Index: 10, Date: bars[10].Date, Price: 80, ThresholdPct: 20}

	o, err := EvaluateOutcome(entry, bars, 0.20, ForwardWindow)
	require.NoError(t, err)
	require.True(t, o.Achieved)
	require.NotNil(t, o.DaysToAchieve)
	assert.Equal(t, 30, *o.DaysToAchieve)
}

func TestEvaluateOutcome_NeverRecovers(t *testing.T) {
	bars := buildBars(concat(repeat(10, 100, 100), repeat(60, 80, 80)))
	entry := model.EntryPoint{Index: 10, Price: 80}

	o, err := EvaluateOutcome(entry, bars, 0.20, ForwardWindow)
	require.NoError(t, err)
	assert.False(t, o.Achieved)
	assert.Nil(t, o.DaysToAchieve)
}

func TestEvaluateOutcome_EntryOnLastBar(t *testing.T) {
	bars := buildBars(concat(repeat(10, 100, 100), []barSpec{{80, 80}}))
	o, err := EvaluateOutcome(model.EntryPoint{Index: 10, Price: 80}, bars, 0.05, ForwardWindow)
	require.NoError(t, err)
	assert.False(t, o.Achieved)
}

func TestEvaluateOutcome_WindowBound(t *testing.T) {
	build := func(hitOffset int) []model.Bar {
		specs := concat(repeat(10, 100, 100), repeat(hitOffset+5, 80, 80))
		specs[10+hitOffset] = barSpec{200, 80}
		return buildBars(specs)
	}

	o, err := EvaluateOutcome(model.EntryPoint{Index: 10, Price: 80}, build(252), 0.5, ForwardWindow)
	require.NoError(t, err)
	require.True(t, o.Achieved)
	assert.Equal(t, 252, *o.DaysToAchieve)

	o, err = EvaluateOutcome(model.EntryPoint{Index: 10, Price: 80}, build(253), 0.5, ForwardWindow)
	require.NoError(t, err)
	assert.False(t, o.Achieved)
}

func TestEvaluateOutcome_WindowCappedAtOneYear(t *testing.T) {
	specs := concat(repeat(10, 100, 100), repeat(400, 80, 80), []barSpec{{200, 80}})
	bars := buildBars(specs)

	o, err := EvaluateOutcome(model.EntryPoint{Index: 10, Price: 80}, bars, 0.2, 1000)
	require.NoError(t, err)
	assert.False(t, o.Achieved)
}

func TestEngine_OversizedWindowKeepsDaysWithinOneYear(t *testing.T) {
	bars := buildBars(concat(repeat(10, 100, 100), repeat(400, 80, 80), []barSpec{{200, 80}}))
	e := NewEngine(nil, 1, nil)
	e.ForwardWindow = 1000

	summaries := runAll(e, bars, 0.2)
	s20 := summaryFor(summaries, 20)
	assert.Equal(t, 1, s20.TotalCount)
	assert.Equal(t, 0, s20.SuccessCount)
	for _, s := range summaries {
		if s.AverageDaysToAchieve != nil {
			assert.LessOrEqualf(t, *s.AverageDaysToAchieve, float64(ForwardWindow), "threshold %d", s.ThresholdPct)
		}
	}
}

func TestEvaluateOutcome_HighEqualToTargetCounts(t *testing.T) {
	bars := buildBars([]barSpec{{100, 100}, {150, 105}})
	o, err := EvaluateOutcome(model.EntryPoint{Index: 0, Price: 100}, bars, 0.50, ForwardWindow)
	require.NoError(t, err)
	assert.True(t, o.Achieved)
	assert.Equal(t, 1, *o.DaysToAchieve)
}

func TestEvaluateOutcome_IndexOutOfRange(t *testing.T) {
	bars := buildBars(repeat(3, 100, 100))
	_, err := EvaluateOutcome(model.EntryPoint{Index: 3, Price: 100}, bars, 0.1, ForwardWindow)
	assert.ErrorIs(t, err, model.ErrEntryOutOfRange)

	_, err = EvaluateOutcome(model.EntryPoint{Index: -1, Price: 100}, bars, 0.1, ForwardWindow)
	assert.ErrorIs(t, err, model.ErrEntryOutOfRange)
}
