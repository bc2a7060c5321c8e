// Package config loads application settings from viper.
package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Default values applied when a key is not configured.
const (
	DefaultJSONPath     = "$HOME/.local/share/ledger/finance_data.json"
	DefaultSQLitePath   = "$HOME/.local/share/ledger/ledger.db"
	DefaultCurrency     = "RUB"
	DefaultRecent       = 10
	DefaultAdviceWindow = "month"
)

// Config is the resolved application configuration.
type Config struct {
	User    string
	Storage StorageConfig
	Report  ReportConfig
	Logging LoggingConfig
}

// StorageConfig selects and locates the user store.
type StorageConfig struct {
	Backend string
	Path    string
}

// ReportConfig controls report rendering and advice.
type ReportConfig struct {
	Currency     string
	AdviceWindow string
	Recent       int
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendJSON)
	v.SetDefault("report.currency", DefaultCurrency)
	v.SetDefault("report.recent", DefaultRecent)
	v.SetDefault("report.advice_window", DefaultAdviceWindow)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from v, applying defaults and expanding paths.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		User: strings.TrimSpace(v.GetString("user")),
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("storage.backend")),
			Path:    v.GetString("storage.path"),
		},
		Report: ReportConfig{
			Currency:     v.GetString("report.currency"),
			Recent:       v.GetInt("report.recent"),
			AdviceWindow: v.GetString("report.advice_window"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	switch cfg.Storage.Backend {
	case BackendJSON:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = DefaultJSONPath
		}
	case BackendSQLite:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = DefaultSQLitePath
		}
	default:
		return nil, fmt.Errorf("%w: storage backend %q", common.ErrInvalidConfig, cfg.Storage.Backend)
	}
	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)

	if cfg.Report.Recent <= 0 {
		return nil, fmt.Errorf("%w: report.recent must be positive, got %d", common.ErrInvalidConfig, cfg.Report.Recent)
	}

	return cfg, nil
}

// RequireUser returns the configured username or an error explaining how to set one.
func (c *Config) RequireUser() (string, error) {
	if c.User == "" {
		return "", common.NewUserError("no user selected; pass --user or set LEDGER_USER", common.ErrMissingConfig)
	}
	return c.User, nil
}
