// Package config provides configuration management for strategyctl.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"strategy-builder/internal/errors"
	"strategy-builder/internal/logging"
	"strategy-builder/internal/models"
	"strategy-builder/internal/strategy"
	"strategy-builder/pkg/utils"
)

// Config holds all application configuration.
type Config struct {
	Validation ValidationConfig `mapstructure:"validation"`
	Defaults   DefaultsConfig   `mapstructure:"defaults"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Logging    LoggingConfig    `mapstructure:"logging"`

	// Path of the file the configuration was read from, empty when only
	// defaults were used.
	Source string `mapstructure:"-"`
}

// ValidationConfig holds the thresholds the strategy validator checks against.
type ValidationConfig struct {
	MarketOpen         string `mapstructure:"market_open"`  // HH:MM
	MarketClose        string `mapstructure:"market_close"` // HH:MM
	MinDurationMinutes int    `mapstructure:"min_duration_minutes"`

	MaxLegs            int     `mapstructure:"max_legs_warning"`
	MaxLots            int     `mapstructure:"max_lots_warning"`
	MaxPremium         float64 `mapstructure:"max_premium_warning"`
	MaxStraddlePercent float64 `mapstructure:"max_straddle_percent_warning"`
	MaxReEntryCount    int     `mapstructure:"max_re_entry_count_warning"`
	LegImbalance       int     `mapstructure:"leg_imbalance_warning"`
	HighTotalLots      int     `mapstructure:"high_total_lots_warning"`
	SlippageLegs       int     `mapstructure:"slippage_legs_warning"`

	Indices map[string]IndexConfig `mapstructure:"indices"`
}

// IndexConfig holds contract details of one underlying.
type IndexConfig struct {
	LotSize        int `mapstructure:"lot_size"`
	FreezeQuantity int `mapstructure:"freeze_quantity"`
}

// DefaultsConfig holds values used when a strategy leaves them out.
type DefaultsConfig struct {
	EntryTime         string `mapstructure:"entry_time"`
	ExitTime          string `mapstructure:"exit_time"`
	RangeBreakoutTime string `mapstructure:"range_breakout_time"`
	Index             string `mapstructure:"index"`
	ExpiryType        string `mapstructure:"expiry_type"` // weekly, monthly
}

// BackendConfig holds strategy backend connection settings.
type BackendConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"` // debug, info, warn, error
	JSON       bool   `mapstructure:"json"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/strategy-builder"
	}
	return filepath.Join(home, ".config", "strategy-builder")
}

// DefaultConfigPath returns the config file inside the default directory.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// Load loads configuration from config.toml in configDir.
// If configDir is empty, uses the default config directory. A missing file
// is replaced by a commented template and the defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	return finish(v)
}

// LoadFile loads configuration from an explicit file. Unlike Load, a missing
// file is an error.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return finish(v)
}

// Default returns the built-in configuration with environment overrides
// applied.
func Default() *Config {
	cfg, err := finish(newViper())
	if err != nil {
		// Built-in defaults always unmarshal and validate.
		panic(err)
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	rules := strategy.DefaultRules()

	v.SetDefault("validation.market_open", rules.MarketOpen.String())
	v.SetDefault("validation.market_close", rules.MarketClose.String())
	v.SetDefault("validation.min_duration_minutes", rules.MinDurationMinutes)
	v.SetDefault("validation.max_legs_warning", rules.MaxLegsWarning)
	v.SetDefault("validation.max_lots_warning", rules.MaxLotsWarning)
	v.SetDefault("validation.max_premium_warning", rules.MaxPremiumWarning)
	v.SetDefault("validation.max_straddle_percent_warning", rules.MaxStraddlePercentWarning)
	v.SetDefault("validation.max_re_entry_count_warning", rules.MaxReEntryCountWarning)
	v.SetDefault("validation.leg_imbalance_warning", rules.LegImbalanceWarning)
	v.SetDefault("validation.high_total_lots_warning", rules.HighTotalLotsWarning)
	v.SetDefault("validation.slippage_legs_warning", rules.SlippageLegsWarning)
	for name, spec := range rules.Indices {
		key := "validation.indices." + strings.ToLower(name)
		v.SetDefault(key+".lot_size", spec.LotSize)
		v.SetDefault(key+".freeze_quantity", spec.FreezeQuantity)
	}

	times := strategy.DefaultTimeDefaults()
	v.SetDefault("defaults.entry_time", times.Entry.String())
	v.SetDefault("defaults.exit_time", times.Exit.String())
	v.SetDefault("defaults.range_breakout_time", times.RangeBreakout.String())
	v.SetDefault("defaults.index", "NIFTY")
	v.SetDefault("defaults.expiry_type", string(models.ExpiryWeekly))

	v.SetDefault("backend.base_url", "http://localhost:8000/api/v1")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("backend.retries", 2)
	v.SetDefault("backend.cache_ttl", "1m")

	logs := logging.DefaultLogConfig()
	v.SetDefault("logging.level", logs.Level)
	v.SetDefault("logging.json", logs.JSON)
	v.SetDefault("logging.file", logs.File)
	v.SetDefault("logging.file_path", logs.FilePath)
	v.SetDefault("logging.max_size", logs.MaxSize)
	v.SetDefault("logging.max_backups", logs.MaxBackups)
	v.SetDefault("logging.max_age", logs.MaxAge)
}

func finish(v *viper.Viper) (*Config, error) {
	cfg := &Config{Source: v.ConfigFileUsed()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRATEGY_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("STRATEGY_BACKEND_TOKEN"); v != "" {
		cfg.Backend.Token = v
	}
	if v := os.Getenv("STRATEGY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	open, ok := utils.ParseClock(c.Validation.MarketOpen)
	if !ok {
		return errors.Wrapf(errors.ErrConfigInvalid, "validation.market_open %q is not HH:MM", c.Validation.MarketOpen)
	}
	closing, ok := utils.ParseClock(c.Validation.MarketClose)
	if !ok {
		return errors.Wrapf(errors.ErrConfigInvalid, "validation.market_close %q is not HH:MM", c.Validation.MarketClose)
	}
	if open.Minutes() >= closing.Minutes() {
		return errors.Wrap(errors.ErrConfigInvalid, "validation.market_open must be before validation.market_close")
	}
	if c.Validation.MinDurationMinutes < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "validation.min_duration_minutes must be non-negative")
	}
	for name, idx := range c.Validation.Indices {
		if idx.LotSize <= 0 {
			return errors.Wrapf(errors.ErrConfigInvalid, "validation.indices.%s.lot_size must be positive", name)
		}
		if idx.FreezeQuantity < 0 {
			return errors.Wrapf(errors.ErrConfigInvalid, "validation.indices.%s.freeze_quantity must be non-negative", name)
		}
	}

	for key, value := range map[string]string{
		"defaults.entry_time":          c.Defaults.EntryTime,
		"defaults.exit_time":           c.Defaults.ExitTime,
		"defaults.range_breakout_time": c.Defaults.RangeBreakoutTime,
	} {
		if _, ok := utils.ParseClock(value); !ok {
			return errors.Wrapf(errors.ErrConfigInvalid, "%s %q is not HH:MM", key, value)
		}
	}
	switch models.ExpiryType(c.Defaults.ExpiryType) {
	case models.ExpiryWeekly, models.ExpiryMonthly:
	default:
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid defaults.expiry_type: %s (must be 'weekly' or 'monthly')", c.Defaults.ExpiryType)
	}

	if c.Backend.Timeout <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "backend.timeout must be positive")
	}
	if c.Backend.Retries < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "backend.retries must be non-negative")
	}
	if c.Backend.CacheTTL < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "backend.cache_ttl must be non-negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid logging.level: %s", c.Logging.Level)
	}

	return nil
}

// Rules converts the validation section into validator thresholds. Index
// names are upper-cased since viper lower-cases keys.
func (c *Config) Rules() strategy.Rules {
	rules := strategy.DefaultRules()
	if open, ok := utils.ParseClock(c.Validation.MarketOpen); ok {
		rules.MarketOpen = open
	}
	if closing, ok := utils.ParseClock(c.Validation.MarketClose); ok {
		rules.MarketClose = closing
	}

	rules.MinDurationMinutes = c.Validation.MinDurationMinutes
	rules.MaxLegsWarning = c.Validation.MaxLegs
	rules.MaxLotsWarning = c.Validation.MaxLots
	rules.MaxPremiumWarning = c.Validation.MaxPremium
	rules.MaxStraddlePercentWarning = c.Validation.MaxStraddlePercent
	rules.MaxReEntryCountWarning = c.Validation.MaxReEntryCount
	rules.LegImbalanceWarning = c.Validation.LegImbalance
	rules.HighTotalLotsWarning = c.Validation.HighTotalLots
	rules.SlippageLegsWarning = c.Validation.SlippageLegs

	if len(c.Validation.Indices) > 0 {
		rules.Indices = make(map[string]strategy.IndexSpec, len(c.Validation.Indices))
		for name, idx := range c.Validation.Indices {
			rules.Indices[strings.ToUpper(name)] = strategy.IndexSpec{
				LotSize:        idx.LotSize,
				FreezeQuantity: idx.FreezeQuantity,
			}
		}
	}
	return rules
}

// TimeDefaults converts the defaults section into transformer fallbacks.
func (c *Config) TimeDefaults() strategy.TimeDefaults {
	d := strategy.DefaultTimeDefaults()
	if t, ok := utils.ParseClock(c.Defaults.EntryTime); ok {
		d.Entry = t
	}
	if t, ok := utils.ParseClock(c.Defaults.ExitTime); ok {
		d.Exit = t
	}
	if t, ok := utils.ParseClock(c.Defaults.RangeBreakoutTime); ok {
		d.RangeBreakout = t
	}
	return d
}

// LogConfig converts the logging section into logger settings.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = c.Logging.Level
	lc.JSON = c.Logging.JSON
	lc.File = c.Logging.File
	if c.Logging.FilePath != "" {
		lc.FilePath = c.Logging.FilePath
	}
	if c.Logging.MaxSize > 0 {
		lc.MaxSize = c.Logging.MaxSize
	}
	if c.Logging.MaxBackups > 0 {
		lc.MaxBackups = c.Logging.MaxBackups
	}
	if c.Logging.MaxAge > 0 {
		lc.MaxAge = c.Logging.MaxAge
	}
	return lc
}
