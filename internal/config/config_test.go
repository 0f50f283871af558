package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, "2020-01-01", cfg.DataSource.HistoryStart)
	assert.Equal(t, 6*time.Hour, cfg.DataSource.CacheTTL)
	assert.Equal(t, 5, cfg.Analysis.ThresholdFrom)
	assert.Equal(t, 90, cfg.Analysis.ThresholdTo)
	assert.Equal(t, 252, cfg.Analysis.ForwardWindow)
	assert.Equal(t, 20.0, cfg.Analysis.DefaultTarget)
	assert.Equal(t, 3.0, cfg.Analysis.FormDefaultTarget)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())

	start, err := cfg.HistoryStartDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  read_timeout: 5s
data_source:
  provider: alpaca
  cache_ttl: 30m
  alpaca:
    api_key: file-key
analysis:
  threshold_from: 10
  threshold_to: 50
  threshold_step: 10
  workers: 2
logging:
  format: json
`)
	t.Setenv("ALPACA_SECRET_KEY", "env-secret")
	t.Setenv("DRAWDOWN_WORKERS", "8")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Minute, cfg.DataSource.CacheTTL)
	assert.Equal(t, "file-key", cfg.DataSource.Alpaca.APIKey)
	assert.Equal(t, "env-secret", cfg.DataSource.Alpaca.APISecret)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, 10, cfg.Analysis.ThresholdStep)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"alpaca without keys", func(c *Config) { c.DataSource.Provider = "alpaca" }},
		{"bad history start", func(c *Config) { c.DataSource.HistoryStart = "01/01/2020" }},
		{"threshold to 100", func(c *Config) { c.Analysis.ThresholdTo = 100 }},
		{"threshold from above to", func(c *Config) { c.Analysis.ThresholdFrom = 95 }},
		{"negative step", func(c *Config) { c.Analysis.ThresholdStep = -5 }},
		{"forward window above a year", func(c *Config) { c.Analysis.ForwardWindow = 1000 }},
		{"negative forward window", func(c *Config) { c.Analysis.ForwardWindow = -1 }},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }},
		{"target above 100", func(c *Config) { c.Analysis.DefaultTarget = 150 }},
		{"telegram without chat", func(c *Config) { c.Telegram.BotToken = "x" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
