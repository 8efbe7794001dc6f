// Package telemetry provides OpenTelemetry initialization for the recipebook
// server and worker.
//
// Traces, logs and metrics are exported over OTLP HTTP to a single endpoint;
// per-signal paths are derived from the endpoint's base path.
package telemetry
