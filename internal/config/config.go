package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// MaxForwardWindow caps analysis.forward_window at one trading year.
const MaxForwardWindow = 252

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	DataSource struct {
		Provider     string        `yaml:"provider"` // yahoo, alpaca or mock
		HistoryStart string        `yaml:"history_start"`
		RateLimit    float64       `yaml:"rate_limit"` // requests per second
		MaxRetries   int           `yaml:"max_retries"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
		Alpaca       struct {
			APIKey    string `yaml:"api_key"`
			APISecret string `yaml:"api_secret"`
			BaseURL   string `yaml:"base_url"`
			Feed      string `yaml:"feed"`
		} `yaml:"alpaca"`
	} `yaml:"data_source"`
	Analysis struct {
		ThresholdFrom     int     `yaml:"threshold_from"`
		ThresholdTo       int     `yaml:"threshold_to"`
		ThresholdStep     int     `yaml:"threshold_step"`
		ForwardWindow     int     `yaml:"forward_window"`
		Workers           int     `yaml:"workers"`
		DefaultTarget     float64 `yaml:"default_target"`      // JSON API and Telegram
		FormDefaultTarget float64 `yaml:"form_default_target"` // HTML form
	} `yaml:"analysis"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
		Disabled   bool   `yaml:"disabled"`
	} `yaml:"database"`
	Symbols struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"symbols"`
	Schedule struct {
		SymbolReloadCron string        `yaml:"symbol_reload_cron"`
		PruneCron        string        `yaml:"prune_cron"`
		PruneAfter       time.Duration `yaml:"prune_after"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or console
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env (if present) into the environment, then config from a YAML
// file, then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DRAWDOWN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DRAWDOWN_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("DRAWDOWN_HISTORY_START"); v != "" {
		c.DataSource.HistoryStart = v
	}
	if v := os.Getenv("DRAWDOWN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.Workers = n
		}
	}
	if v := os.Getenv("DRAWDOWN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DRAWDOWN_SYMBOLS_CSV"); v != "" {
		c.Symbols.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		c.DataSource.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		c.DataSource.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		c.DataSource.Alpaca.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.HistoryStart == "" {
		c.DataSource.HistoryStart = "2020-01-01"
	}
	if c.DataSource.RateLimit == 0 {
		c.DataSource.RateLimit = 2
	}
	if c.DataSource.MaxRetries == 0 {
		c.DataSource.MaxRetries = 2
	}
	if c.DataSource.CacheTTL == 0 {
		c.DataSource.CacheTTL = 6 * time.Hour
	}
	if c.Analysis.ThresholdFrom == 0 {
		c.Analysis.ThresholdFrom = 5
	}
	if c.Analysis.ThresholdTo == 0 {
		c.Analysis.ThresholdTo = 90
	}
	if c.Analysis.ThresholdStep == 0 {
		c.Analysis.ThresholdStep = 5
	}
	if c.Analysis.ForwardWindow == 0 {
		c.Analysis.ForwardWindow = 252
	}
	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = 4
	}
	if c.Analysis.DefaultTarget == 0 {
		c.Analysis.DefaultTarget = 20
	}
	if c.Analysis.FormDefaultTarget == 0 {
		c.Analysis.FormDefaultTarget = 3
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/drawdown.db"
	}
	if c.Schedule.SymbolReloadCron == "" {
		c.Schedule.SymbolReloadCron = "0 0 6 * * *"
	}
	if c.Schedule.PruneCron == "" {
		c.Schedule.PruneCron = "0 30 3 * * *"
	}
	if c.Schedule.PruneAfter == 0 {
		c.Schedule.PruneAfter = 30 * 24 * time.Hour
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// HistoryStartDate parses data_source.history_start.
func (c *Config) HistoryStartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.DataSource.HistoryStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("data_source.history_start: %w", err)
	}
	return t, nil
}

// TelegramEnabled reports whether the Telegram bot should run.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "alpaca":
		if c.DataSource.Alpaca.APIKey == "" || c.DataSource.Alpaca.APISecret == "" {
			return fmt.Errorf("data_source.alpaca.api_key and api_secret are required for the alpaca provider")
		}
	default:
		return fmt.Errorf("data_source.provider must be yahoo, alpaca or mock, got %q", c.DataSource.Provider)
	}
	if _, err := c.HistoryStartDate(); err != nil {
		return err
	}
	if c.DataSource.RateLimit < 0 {
		return fmt.Errorf("data_source.rate_limit must not be negative")
	}
	if c.DataSource.MaxRetries < 0 {
		return fmt.Errorf("data_source.max_retries must not be negative")
	}
	a := c.Analysis
	if a.ThresholdFrom <= 0 || a.ThresholdTo >= 100 || a.ThresholdFrom > a.ThresholdTo {
		return fmt.Errorf("analysis thresholds must satisfy 0 < threshold_from <= threshold_to < 100")
	}
	if a.ThresholdStep <= 0 {
		return fmt.Errorf("analysis.threshold_step must be positive")
	}
	if a.ForwardWindow <= 0 || a.ForwardWindow > MaxForwardWindow {
		return fmt.Errorf("analysis.forward_window must be in 1..%d", MaxForwardWindow)
	}
	if a.Workers < 1 {
		return fmt.Errorf("analysis.workers must be at least 1")
	}
	for name, v := range map[string]float64{"default_target": a.DefaultTarget, "form_default_target": a.FormDefaultTarget} {
		if v <= 0 || v > 100 {
			return fmt.Errorf("analysis.%s must be in (0, 100]", name)
		}
	}
	if c.TelegramEnabled() && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
