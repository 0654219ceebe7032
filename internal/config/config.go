// Package config reads runtime settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Config holds every tunable the pipeline and CLI accept.
type Config struct {
	// Churn: grouping keys with no orders for this many days count as churned.
	ChurnThresholdDays int `env:"CHURN_THRESHOLD_DAYS" envDefault:"30"`

	// Optional outlier bound on abs(revenue). Off by default; refunds
	// (negative revenue) inside the bound always survive.
	RevenueCeilingEnabled bool   `env:"REVENUE_CEILING_ENABLED" envDefault:"false"`
	RevenueCeiling        string `env:"REVENUE_CEILING" envDefault:"10000"`

	// Reference month used when a date column is corrupted beyond parsing.
	// Fixed by default so repaired datasets are reproducible; format YYYY-MM.
	RepairReferenceMonth string `env:"REPAIR_REFERENCE_MONTH" envDefault:"2025-06"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	OutputDir string `env:"OUTPUT_DIR" envDefault:"outputs"`
}

// Load reads an optional .env file, then the environment. A missing .env is
// not an error; a malformed value is.
func Load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// ReferenceMonth parses RepairReferenceMonth into the first day of that
// month, UTC.
func (c *Config) ReferenceMonth() (time.Time, error) {
	t, err := time.Parse("2006-01", c.RepairReferenceMonth)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse REPAIR_REFERENCE_MONTH %q: %w", c.RepairReferenceMonth, err)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}
