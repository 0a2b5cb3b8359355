// Package config loads cfohelper settings from a TOML file, with overrides
// from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/cfohelper/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Environment variables that override the config file.
const (
	EnvDataFile  = "CFOHELPER_DATA_FILE"
	EnvRedisAddr = "CFOHELPER_REDIS_ADDR"
	EnvCurrency  = "CFOHELPER_CURRENCY"
)

// Cache backends.
const (
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all cfohelper configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Cache      CacheConfig      `toml:"cache"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Limits     LimitsConfig     `toml:"limits"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataFile string `toml:"data_file"`
	Currency string `toml:"currency"`
}

// CacheConfig selects where parsed baselines are cached.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr,omitempty"`
	RedisTTL  int    `toml:"redis_ttl_sec,omitempty"`
}

// DaemonConfig holds settings for the HTTP daemon.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// LimitsConfig bounds the scenario inputs accepted by the interactive and
// HTTP front ends. The scenario engine itself accepts any input.
type LimitsConfig struct {
	MaxHires     int64   `toml:"max_hires"`
	MarketingMin float64 `toml:"marketing_min"`
	MarketingMax float64 `toml:"marketing_max"`
	PriceMinPct  float64 `toml:"price_min_pct"`
	PriceMaxPct  float64 `toml:"price_max_pct"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DataFile: filepath.Join("data", "finances.csv"),
			Currency: "₹",
		},
		Cache: CacheConfig{
			Backend: CacheSQLite,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8765",
			IntervalSec:  5,
			EventsBuffer: 200,
		},
		Limits: LimitsConfig{
			MaxHires:     20,
			MarketingMin: -200000,
			MarketingMax: 200000,
			PriceMinPct:  -50,
			PriceMaxPct:  100,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfohelper")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cfohelper")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist, and
// applies environment overrides. A .env file in the working directory is
// loaded first when present; variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataFile); v != "" {
		cfg.General.DataFile = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
		if cfg.Cache.Backend == "" || cfg.Cache.Backend == CacheSQLite {
			cfg.Cache.Backend = CacheRedis
		}
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		cfg.General.Currency = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// ErrOutOfRange is wrapped by LimitsConfig.Check.
var ErrOutOfRange = errors.New("out of range")

// Check reports the first scenario input that falls outside the limits.
func (l LimitsConfig) Check(d model.Delta) error {
	if d.AddHires < 0 || d.AddHires > l.MaxHires {
		return fmt.Errorf("add_hires %d: %w (0..%d)", d.AddHires, ErrOutOfRange, l.MaxHires)
	}
	if !within(d.DeltaMarketing, l.MarketingMin, l.MarketingMax) {
		return fmt.Errorf("delta_marketing %s: %w (%g..%g)", d.DeltaMarketing, ErrOutOfRange, l.MarketingMin, l.MarketingMax)
	}
	if !within(d.PriceChangePct, l.PriceMinPct, l.PriceMaxPct) {
		return fmt.Errorf("price_change_pct %s: %w (%g..%g)", d.PriceChangePct, ErrOutOfRange, l.PriceMinPct, l.PriceMaxPct)
	}
	return nil
}

func within(v decimal.Decimal, lo, hi float64) bool {
	return v.GreaterThanOrEqual(decimal.NewFromFloat(lo)) && v.LessThanOrEqual(decimal.NewFromFloat(hi))
}
