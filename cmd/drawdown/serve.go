package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"DrawdownLens/internal/notifier"
	"DrawdownLens/internal/scheduler"
	"DrawdownLens/internal/server"
	"DrawdownLens/internal/symbols"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI, JSON API and optional Telegram bot",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("DrawdownLens starting", zap.String("config", configPath))

	st := newStore(cfg, logger)
	defer st.Close()

	analyzer, err := newAnalyzer(cfg, st, logger)
	if err != nil {
		return err
	}

	var dir *symbols.Directory
	if p := cfg.Symbols.CSVPath; p != "" && fileExists(p) {
		if dir, err = symbols.Load(p); err != nil {
			logger.Warn("symbol directory unavailable, autocomplete disabled", zap.Error(err))
			dir = nil
		} else {
			logger.Info("symbol directory loaded", zap.Int("symbols", dir.Len()))
		}
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var reloader scheduler.Reloader
	if dir != nil {
		reloader = dir
	}
	sched := scheduler.NewScheduler(ctx, reloader, st, cfg.Schedule.PruneAfter, logger)
	if err := sched.RegisterAll(cfg.Schedule.SymbolReloadCron, cfg.Schedule.PruneCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		commands := notifier.NewCommands(analyzer, cfg.Analysis.DefaultTarget, logger)
		go tn.StartPolling(ctx, commands.Handle)
		logger.Info("Telegram polling started")
	}

	srv := server.New(analyzer, dir, server.Options{
		Addr:              cfg.Server.Addr,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		DefaultTarget:     cfg.Analysis.DefaultTarget,
		FormDefaultTarget: cfg.Analysis.FormDefaultTarget,
		Provider:          cfg.DataSource.Provider,
	}, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("DrawdownLens stopped")
	return nil
}
