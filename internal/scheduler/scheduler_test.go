package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawdownLens/internal/model"
)

type fakeReloader struct {
	calls int
	err   error
}

func (f *fakeReloader) Reload() error { f.calls++; return f.err }
func (f *fakeReloader) Len() int      { return 3 }

type fakeStore struct {
	cutoff time.Time
	err    error
}

func (f *fakeStore) LoadSeries(context.Context, string) (*model.PriceSeries, error) { return nil, nil }
func (f *fakeStore) SaveSeries(context.Context, *model.PriceSeries) error           { return nil }
func (f *fakeStore) Close() error                                                   { return nil }
func (f *fakeStore) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 2, f.err
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeReloader{}, &fakeStore{}, time.Hour, nil)

	require.NoError(t, s.RegisterAll("0 0 6 * * *", "0 30 3 * * *"))
	assert.Len(t, s.Cron.Entries(), 2)
}

func TestRegisterAll_SkipsDisabledTasks(t *testing.T) {
	s := NewScheduler(context.Background(), nil, nil, 0, nil)

	require.NoError(t, s.RegisterAll("0 0 6 * * *", "0 30 3 * * *"))
	assert.Empty(t, s.Cron.Entries())
}

func TestRegisterAll_InvalidSpec(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeReloader{}, &fakeStore{}, time.Hour, nil)

	assert.Error(t, s.RegisterAll("every morning", ""))
	assert.Error(t, s.RegisterAll("", "0 0 6 * *"), "five-field spec lacks seconds")
}

func TestPruneCache(t *testing.T) {
	st := &fakeStore{}
	s := NewScheduler(context.Background(), nil, st, 48*time.Hour, nil)
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return now }

	s.PruneCache()
	assert.Equal(t, now.Add(-48*time.Hour), st.cutoff)

	st.err = errors.New("locked")
	s.PruneCache()
}

func TestReloadSymbols(t *testing.T) {
	r := &fakeReloader{}
	s := NewScheduler(context.Background(), r, nil, 0, nil)

	s.ReloadSymbols()
	r.err = errors.New("missing file")
	s.ReloadSymbols()
	assert.Equal(t, 2, r.calls)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeReloader{}, nil, 0, nil)
	require.NoError(t, s.RegisterAll("0 0 6 * * *", ""))
	s.Start()
	s.Stop()
}
