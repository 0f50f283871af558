package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"DrawdownLens/internal/store"
)

// Reloader is a data source that can be re-read in place.
type Reloader interface {
	Reload() error
	Len() int
}

// Scheduler manages the background maintenance tasks.
type Scheduler struct {
	Cron       *cron.Cron
	Symbols    Reloader // may be nil
	Store      store.Store
	PruneAfter time.Duration
	Now        func() time.Time
	Logger     *zap.Logger
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler. Cron specs carry a seconds field.
func NewScheduler(ctx context.Context, symbols Reloader, st store.Store, pruneAfter time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if st == nil {
		st = store.NoopStore{}
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Symbols:    symbols,
		Store:      st,
		PruneAfter: pruneAfter,
		Now:        time.Now,
		Logger:     logger,
		Ctx:        ctx,
	}
}

// RegisterAll registers the symbol-directory reload and the bar cache prune.
// An empty spec skips that task.
func (s *Scheduler) RegisterAll(symbolReloadCron, pruneCron string) error {
	if symbolReloadCron != "" && s.Symbols != nil {
		if _, err := s.Cron.AddFunc(symbolReloadCron, s.ReloadSymbols); err != nil {
			return fmt.Errorf("register symbol reload task: %w", err)
		}
	}
	if pruneCron != "" && s.PruneAfter > 0 {
		if _, err := s.Cron.AddFunc(pruneCron, s.PruneCache); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("tasks", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// ReloadSymbols re-reads the autocomplete directory. A failed reload keeps
// the previous contents.
func (s *Scheduler) ReloadSymbols() {
	if err := s.Symbols.Reload(); err != nil {
		s.Logger.Error("symbol directory reload failed", zap.Error(err))
		return
	}
	s.Logger.Info("symbol directory reloaded", zap.Int("symbols", s.Symbols.Len()))
}

// PruneCache drops cached price history older than PruneAfter.
func (s *Scheduler) PruneCache() {
	cutoff := s.Now().Add(-s.PruneAfter)
	n, err := s.Store.Prune(s.Ctx, cutoff)
	if err != nil {
		s.Logger.Error("bar cache prune failed", zap.Error(err))
		return
	}
	s.Logger.Info("bar cache pruned", zap.Int64("series_removed", n), zap.Time("cutoff", cutoff))
}
