// Package config loads and persists smsledger configuration, including the
// ordered categorization rule tables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all smsledger configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Filter   FilterConfig   `toml:"filter"`
	Extract  ExtractConfig  `toml:"extract"`
	Forecast ForecastConfig `toml:"forecast"`
	Rules    RulesConfig    `toml:"rules"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir      string `toml:"data_dir,omitempty"`      // message archive location
	DefaultMonth string `toml:"default_month,omitempty"` // "YYYY-MM"; empty = current month
}

// FilterConfig holds the transaction-indicator terms. Matching is
// case-sensitive and whole-word.
type FilterConfig struct {
	Terms []string `toml:"terms"`
}

// ExtractConfig holds the currency markers recognized before amounts.
type ExtractConfig struct {
	CurrencyMarkers []string `toml:"currency_markers"`
}

// ForecastConfig holds budget forecasting settings.
type ForecastConfig struct {
	// FallbackRatio is used as the average spending ratio when no prior
	// months exist.
	FallbackRatio float64 `toml:"fallback_ratio"`
}

// RulesConfig holds the two categorization tables. TOML arrays-of-tables
// keep declaration order, which is the tie-breaking order on overlapping
// substrings.
type RulesConfig struct {
	Payees   []RuleEntry `toml:"payees"`
	Keywords []RuleEntry `toml:"keywords"`
}

// RuleEntry is one substring-to-category mapping.
type RuleEntry struct {
	Match    string `toml:"match"`
	Category string `toml:"category"`
}

// DefaultConfig returns the built-in configuration, including the stock
// rule tables.
func DefaultConfig() Config {
	return Config{
		Filter: FilterConfig{
			Terms: []string{"debited", "credited", "Sent"},
		},
		Extract: ExtractConfig{
			CurrencyMarkers: []string{"Rs.", "Rs", "INR", "₹"},
		},
		Forecast: ForecastConfig{
			FallbackRatio: 0.8,
		},
		Rules: RulesConfig{
			Payees:   defaultPayeeRules(),
			Keywords: defaultKeywordRules(),
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "smsledger")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "smsledger")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the directory holding the message archive: the configured
// override, or an XDG data directory.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "smsledger")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "smsledger")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A config file replaces whole sections it declares: declaring any payee
// rule replaces the stock payee table rather than appending to it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	var fileCfg Config
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	merge(&cfg, fileCfg)
	return cfg, nil
}

func merge(cfg *Config, file Config) {
	if file.General.DataDir != "" {
		cfg.General.DataDir = file.General.DataDir
	}
	if file.General.DefaultMonth != "" {
		cfg.General.DefaultMonth = file.General.DefaultMonth
	}
	if len(file.Filter.Terms) > 0 {
		cfg.Filter.Terms = file.Filter.Terms
	}
	if len(file.Extract.CurrencyMarkers) > 0 {
		cfg.Extract.CurrencyMarkers = file.Extract.CurrencyMarkers
	}
	if file.Forecast.FallbackRatio > 0 {
		cfg.Forecast.FallbackRatio = file.Forecast.FallbackRatio
	}
	if len(file.Rules.Payees) > 0 {
		cfg.Rules.Payees = file.Rules.Payees
	}
	if len(file.Rules.Keywords) > 0 {
		cfg.Rules.Keywords = file.Rules.Keywords
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
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
