// Package config loads and validates the CloudConnect application
// configuration from a YAML file, applying defaults for anything
// unset.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cloudconnect/cloudconnect/pkg/telemetry"
)

// Config is the full application configuration.
type Config struct {
	// Environment is the deployment environment.
	Environment string `yaml:"environment" validate:"oneof=dev staging prod"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Tracing configures tracing.
	Tracing TracingConfig `yaml:"tracing"`

	// Metrics configures metrics collection.
	Metrics MetricsConfig `yaml:"metrics"`

	// Activity configures the activity log backend.
	Activity ActivityConfig `yaml:"activity"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `yaml:"format" validate:"oneof=console json"`
	Output string `yaml:"output"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter" validate:"oneof=otlp stdout none"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate" validate:"gte=0,lte=1"`
	Insecure     bool    `yaml:"insecure"`
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// ActivityConfig configures where lifecycle events are persisted.
type ActivityConfig struct {
	// Backend selects the recorder implementation.
	Backend string `yaml:"backend" validate:"oneof=file sqlite"`

	// Dir is the log directory for the file backend.
	Dir string `yaml:"dir"`

	// Path is the database path for the sqlite backend.
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Environment: "dev",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "none",
			SamplingRate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "cloudconnect",
		},
		Activity: ActivityConfig{
			Backend: "file",
			Dir:     "logs",
			Path:    "cloudconnect.db",
		},
	}
}

// Load reads the configuration from path, merged over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to parse config from %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed for %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Tracing.Enabled && c.Tracing.Exporter == "otlp" && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required for the otlp exporter")
	}
	switch c.Activity.Backend {
	case "file":
		if c.Activity.Dir == "" {
			return fmt.Errorf("activity.dir is required for the file backend")
		}
	case "sqlite":
		if c.Activity.Path == "" {
			return fmt.Errorf("activity.path is required for the sqlite backend")
		}
	}
	return nil
}

// Telemetry converts the configuration into the telemetry package's
// form.
func (c *Config) Telemetry(version string) *telemetry.Config {
	return &telemetry.Config{
		ServiceName:    "cloudconnect",
		ServiceVersion: version,
		Environment:    c.Environment,
		Logging: telemetry.LoggingConfig{
			Level:  c.Logging.Level,
			Format: c.Logging.Format,
			Output: c.Logging.Output,
		},
		Tracing: telemetry.TracingConfig{
			Enabled:      c.Tracing.Enabled,
			Exporter:     c.Tracing.Exporter,
			Endpoint:     c.Tracing.Endpoint,
			SamplingRate: c.Tracing.SamplingRate,
			Insecure:     c.Tracing.Insecure,
		},
		Metrics: telemetry.MetricsConfig{
			Enabled:   c.Metrics.Enabled,
			Namespace: c.Metrics.Namespace,
		},
	}
}
