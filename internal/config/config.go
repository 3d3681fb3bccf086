// Package config provides configuration loading for validationd.
//
// Configuration is loaded from a YAML file with environment variable
// overrides. The engine's threshold config is validated at load time: an
// invalid config is rejected with a descriptive error, never clamped.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/validationd/internal/priority"
	"github.com/fyrsmithlabs/validationd/internal/telemetry"
	"github.com/fyrsmithlabs/validationd/internal/validation"
)

// Config holds the complete validationd configuration.
type Config struct {
	Logging    LoggingConfig              `koanf:"logging"`
	Telemetry  TelemetryConfig            `koanf:"telemetry"`
	Thresholds validation.ThresholdConfig `koanf:"thresholds"`
	Review     ReviewConfig               `koanf:"review"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled         bool     `koanf:"enabled"`
	Endpoint        string   `koanf:"endpoint"`
	ServiceName     string   `koanf:"service_name"`
	ServiceVersion  string   `koanf:"service_version"`
	Insecure        bool     `koanf:"insecure"`
	SamplingRate    float64  `koanf:"sampling_rate"`
	ExportInterval  Duration `koanf:"export_interval"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Telemetry converts the koanf shape into the telemetry package's config.
func (t TelemetryConfig) Telemetry() *telemetry.Config {
	return &telemetry.Config{
		Enabled:         t.Enabled,
		Endpoint:        t.Endpoint,
		ServiceName:     t.ServiceName,
		ServiceVersion:  t.ServiceVersion,
		Insecure:        t.Insecure,
		SamplingRate:    t.SamplingRate,
		MetricsEnabled:  t.Enabled,
		ExportInterval:  t.ExportInterval.Duration(),
		ShutdownTimeout: t.ShutdownTimeout.Duration(),
	}
}

// ReviewConfig holds default review resourcing for queue optimization.
type ReviewConfig struct {
	ValidatorExpertise string   `koanf:"validator_expertise"`
	AvailableTime      Duration `koanf:"available_time"`
}

// applyDefaults fills in zero values with defaults.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "validationd"
	}
	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = "0.1.0"
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRate == 0 {
		cfg.Telemetry.SamplingRate = 1.0
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = Duration(15 * time.Second)
	}
	if cfg.Telemetry.ShutdownTimeout == 0 {
		cfg.Telemetry.ShutdownTimeout = Duration(5 * time.Second)
	}
	if cfg.Thresholds.AutoApprove == 0 && cfg.Thresholds.AutoReject == 0 {
		cfg.Thresholds = validation.DefaultThresholdConfig()
	}
	if cfg.Review.ValidatorExpertise == "" {
		cfg.Review.ValidatorExpertise = string(priority.ExpertiseIntermediate)
	}
	if cfg.Review.AvailableTime == 0 {
		cfg.Review.AvailableTime = Duration(2 * time.Hour)
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	if err := c.Telemetry.Telemetry().Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	if _, err := priority.Expertise(c.Review.ValidatorExpertise).MinutesPerItem(); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	if c.Review.AvailableTime.Duration() <= 0 {
		return fmt.Errorf("review: available time must be greater than zero")
	}

	return nil
}
