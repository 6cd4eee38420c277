// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristath/coinfolio/internal/clients/coingecko"
	"github.com/aristath/coinfolio/internal/modules/charts"
	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir          string // Base directory for all databases (always absolute)
	Port             int
	LogLevel         string
	DevMode          bool
	CoinGeckoBaseURL string
	PollInterval     time.Duration
	FetchTimeout     time.Duration
	BaseCurrency     currency.Code
	Rates            map[currency.Code]float64 // Multipliers from BaseCurrency
	Palette          charts.Palette
	InnerRadius      float64 // Donut hole radius as a share of the outer radius
	SeedDefaults     bool    // Seed the default assets into an empty holdings store
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("COINFOLIO_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}
	cfg.DataDir = absDataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fromEnv builds the configuration without touching the filesystem
func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getEnvAsInt("GO_PORT", 8001),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", coingecko.DefaultBaseURL),
		PollInterval:     getEnvAsDuration("POLL_INTERVAL", 5*time.Minute),
		FetchTimeout:     getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		BaseCurrency:     currency.Normalize(getEnv("BASE_CURRENCY", string(currency.USD))),
		Rates:            currency.DefaultRates(),
		Palette:          charts.DefaultPalette,
		InnerRadius:      getEnvAsFloat("CHART_INNER_RADIUS", charts.DefaultInnerRatio),
		SeedDefaults:     getEnvAsBool("SEED_DEFAULT_HOLDINGS", true),
	}

	if raw := os.Getenv("CURRENCY_RATES"); raw != "" {
		rates, err := currency.ParseRates(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CURRENCY_RATES: %w", err)
		}
		cfg.Rates = rates
	}

	if raw := os.Getenv("CHART_PALETTE"); raw != "" {
		palette, err := charts.ParsePalette(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CHART_PALETTE: %w", err)
		}
		cfg.Palette = palette
	}

	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid GO_PORT: %d", c.Port)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.InnerRadius < 0 || c.InnerRadius >= 1 {
		return fmt.Errorf("CHART_INNER_RADIUS must be in [0, 1), got %v", c.InnerRadius)
	}
	if c.BaseCurrency == "" {
		return fmt.Errorf("BASE_CURRENCY is required")
	}
	for code, rate := range c.Rates {
		if rate <= 0 {
			return fmt.Errorf("rate for %s must be positive, got %v", code, rate)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s", "5m") or plain seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
