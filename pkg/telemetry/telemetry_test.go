package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"json log format", func(c *Config) { c.Logging.Format = "json" }, false},
		{"otlp without endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
		}, true},
		{"stdout exporter", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "stdout"
		}, false},
		{"bad sampling rate", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "none"
			c.Tracing.SamplingRate = 2.0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	// None of these may panic on a disabled instance.
	m.RecordOperation("AppService", "start", "success", time.Millisecond)
	m.RecordOperationError("NOT_FOUND")
	m.SetResourceCount("AppService", "started", 1)
	m.RecordActivityFailure()
	if m.Handler() != nil {
		t.Error("disabled metrics returned a handler")
	}
}

func TestMetricsEnabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: true, Namespace: "test"})
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.RecordOperation("AppService", "create", "success", time.Millisecond)
	m.RecordOperationError("VALIDATION_ERROR")
	m.SetResourceCount("AppService", "created", 2)
	if m.Handler() == nil {
		t.Error("enabled metrics returned no handler")
	}
	if m.Registry() == nil {
		t.Error("enabled metrics returned no registry")
	}
}

func TestTelemetryContextRoundTrip(t *testing.T) {
	tel, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := tel.WithContext(context.Background())
	if got := FromTelemetryContext(ctx); got != tel {
		t.Error("telemetry not recoverable from context")
	}
	if FromTelemetryContext(context.Background()) != nil {
		t.Error("empty context yielded a telemetry instance")
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestLoggerFromEmptyContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil")
	}
}
