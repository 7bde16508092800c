// Package config reads the settings and holdings files of symwatch
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/robotomize/symwatch"
	"github.com/robotomize/symwatch/internal/logging"
	"github.com/robotomize/symwatch/label"
)

const (
	DefaultSettingsFile = "settings.json"
	DefaultHoldingsFile = "holdings.json"
	DefaultEnvFile      = ".env"
)

var ErrInvalidSettings = errors.New("invalid settings")

// periods and intervals accepted by the chart API
var (
	validPeriods   = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}
	validIntervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}
)

// Settings of the tracker. Every key can be overridden by its env variable.
type Settings struct {
	Period         string `json:"PERIOD" env:"SYMWATCH_PERIOD" env-default:"1d" env-description:"timespan of fetched histories"`
	Interval       string `json:"INTERVAL" env:"SYMWATCH_INTERVAL" env-default:"1m" env-description:"granularity of fetched histories"`
	UpdateInterval int    `json:"UPDATE_INTERVAL" env:"SYMWATCH_UPDATE_INTERVAL" env-default:"60" env-description:"seconds between refreshes, min 60"`
	LocalCurrency  string `json:"LOCAL_CURRENCY" env:"SYMWATCH_LOCAL_CURRENCY" env-default:"SEK" env-description:"currency of the portfolio"`
}

// Local returns the portfolio currency
func (s Settings) Local() label.Symbol {
	return label.Symbol(s.LocalCurrency)
}

// RefreshInterval returns the update interval raised to the minimum the watcher accepts
func (s Settings) RefreshInterval() time.Duration {
	d := time.Duration(s.UpdateInterval) * time.Second
	if d < symwatch.MinRefreshInterval {
		return symwatch.MinRefreshInterval
	}

	return d
}

func (s Settings) Validate() error {
	if !contains(validPeriods, s.Period) {
		return fmt.Errorf("%w: PERIOD %q", ErrInvalidSettings, s.Period)
	}

	if !contains(validIntervals, s.Interval) {
		return fmt.Errorf("%w: INTERVAL %q", ErrInvalidSettings, s.Interval)
	}

	if s.UpdateInterval < 0 {
		return fmt.Errorf("%w: UPDATE_INTERVAL %d", ErrInvalidSettings, s.UpdateInterval)
	}

	if !s.Local().Valid() {
		return fmt.Errorf("%w: LOCAL_CURRENCY %q", ErrInvalidSettings, s.LocalCurrency)
	}

	return nil
}

// LoadSettings reads the settings file, a missing file yields the defaults
func LoadSettings(ctx context.Context, path string) (Settings, error) {
	var s Settings

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &s); err != nil {
			return s, fmt.Errorf("read %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		logging.FromContext(ctx).Printf("settings file %s not found, using defaults", path)
		if err := cleanenv.ReadEnv(&s); err != nil {
			return s, fmt.Errorf("read env: %w", err)
		}
	default:
		return s, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return s, err
	}

	return s, nil
}

// LoadEnv loads env files into the process environment, the default .env is optional
func LoadEnv(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}

		return nil
	}

	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	logging.FromContext(ctx).Printf("env loaded from %v", paths)

	return nil
}

// Usage returns the description of the env variables
func Usage() string {
	text, err := cleanenv.GetDescription(&Settings{}, nil)
	if err != nil {
		return ""
	}

	return text
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
