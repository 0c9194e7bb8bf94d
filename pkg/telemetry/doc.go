// Package telemetry provides structured logging (zerolog), metrics
// (Prometheus), and tracing (OpenTelemetry) for CloudConnect.
//
// The Telemetry bundle is created once at startup from a Config and
// threaded through contexts. Lifecycle operations are logged with
// resource/type/operation fields, counted per type and outcome, and
// traced one span per operation.
package telemetry
