package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-builder/internal/errors"
	"strategy-builder/internal/strategy"
	"strategy-builder/pkg/utils"
)

func clearEnv(t *testing.T) {
	t.Setenv("STRATEGY_BACKEND_URL", "")
	t.Setenv("STRATEGY_BACKEND_TOKEN", "")
	t.Setenv("STRATEGY_LOG_LEVEL", "")
}

func TestLoad_WritesTemplateAndUsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "strategy-builder")

	cfg, err := Load(dir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.Equal(t, strategy.DefaultRules(), cfg.Rules())
	assert.Equal(t, strategy.DefaultTimeDefaults(), cfg.TimeDefaults())
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, time.Minute, cfg.Backend.CacheTTL)

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, strategy.DefaultRules(), again.Rules())
	assert.Equal(t, filepath.Join(dir, "config.toml"), again.Source)
}

func TestLoadFile_Overrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[validation]
market_open = "09:00"
max_legs_warning = 4

[validation.indices.NIFTY]
lot_size = 50
freeze_quantity = 1800

[defaults]
entry_time = "09:20"

[backend]
base_url = "https://strategies.example.com"
timeout = "3s"

[logging]
level = "DEBUG"
`), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	rules := cfg.Rules()
	assert.Equal(t, utils.Clock{Hour: 9, Minute: 0}, rules.MarketOpen)
	assert.Equal(t, 4, rules.MaxLegsWarning)
	assert.Equal(t, strategy.IndexSpec{LotSize: 50, FreezeQuantity: 1800}, rules.Indices["NIFTY"])
	assert.Equal(t, strategy.IndexSpec{LotSize: 35, FreezeQuantity: 900}, rules.Indices["BANKNIFTY"])
	assert.NotContains(t, rules.Indices, "nifty")

	assert.Equal(t, utils.Clock{Hour: 9, Minute: 20}, cfg.TimeDefaults().Entry)
	assert.Equal(t, "https://strategies.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "DEBUG", cfg.LogConfig().Level)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STRATEGY_BACKEND_URL", "http://backend:9000")
	t.Setenv("STRATEGY_BACKEND_TOKEN", "secret")
	t.Setenv("STRATEGY_LOG_LEVEL", "warn")

	cfg := Default()
	assert.Equal(t, "http://backend:9000", cfg.Backend.BaseURL)
	assert.Equal(t, "secret", cfg.Backend.Token)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad market open", func(c *Config) { c.Validation.MarketOpen = "9.15" }},
		{"open after close", func(c *Config) { c.Validation.MarketOpen = "16:00" }},
		{"zero lot size", func(c *Config) { c.Validation.Indices["nifty"] = IndexConfig{LotSize: 0} }},
		{"bad default time", func(c *Config) { c.Defaults.ExitTime = "25:00" }},
		{"bad expiry", func(c *Config) { c.Defaults.ExpiryType = "daily" }},
		{"zero timeout", func(c *Config) { c.Backend.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.Backend.Retries = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, errors.ErrConfigInvalid)
		})
	}
}

func TestLogConfig(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Logging.File = true
	cfg.Logging.FilePath = "/tmp/strategyctl-test.log"
	cfg.Logging.MaxSize = 0

	lc := cfg.LogConfig()
	assert.True(t, lc.File)
	assert.Equal(t, "/tmp/strategyctl-test.log", lc.FilePath)
	assert.Equal(t, 50, lc.MaxSize)
	assert.True(t, lc.Console)
}
