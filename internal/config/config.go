package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/labstack/gommon/log"
)

type SummaryFormat string

const (
	SummaryText SummaryFormat = "text"
	SummaryJSON SummaryFormat = "json"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type Config struct {
	// Data
	DataDir string `env:"BABYNAMES_DATA_DIR" envDefault:"data"`

	// Browsing
	BatchSize int    `env:"BABYNAMES_BATCH_SIZE" envDefault:"20"`
	Seed      uint64 `env:"BABYNAMES_SEED" envDefault:"0"`
	NoRepeat  bool   `env:"BABYNAMES_NO_REPEAT" envDefault:"false"`

	// Output
	SummaryFormat SummaryFormat `env:"BABYNAMES_SUMMARY_FORMAT" envDefault:"text"`
	Color         ColorMode     `env:"BABYNAMES_COLOR" envDefault:"auto"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
}

// New parses the environment into a validated Config.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.SummaryFormat = SummaryFormat(strings.ToLower(string(cfg.SummaryFormat)))
	cfg.Color = ColorMode(strings.ToLower(string(cfg.Color)))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	switch c.SummaryFormat {
	case SummaryText, SummaryJSON:
	default:
		return fmt.Errorf("unknown summary format %q", c.SummaryFormat)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q", c.Color)
	}
	if _, ok := ParseLogLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// ParseLogLevel maps debug|info|warn|error|off onto gommon levels.
func ParseLogLevel(s string) (log.Lvl, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, true
	case "info", "":
		return log.INFO, true
	case "warn", "warning":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	}
	return 0, false
}
