package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTelemetry_NoEndpoint(t *testing.T) {
	shutdown, err := InitTelemetry(context.Background(), Settings{ServiceName: "test-service", ServiceVersion: "v1.0.0", Env: "test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in       string
		host     string
		insecure bool
		traces   string
		metrics  string
	}{
		{"https://otlp.example.com", "otlp.example.com", false, "/v1/traces", "/v1/metrics"},
		{"http://localhost:4318", "localhost:4318", true, "/v1/traces", "/v1/metrics"},
		{"https://gateway.example.com/otlp", "gateway.example.com", false, "/otlp/v1/traces", "/otlp/v1/metrics"},
		{"https://gateway.example.com/otlp/v1/traces", "gateway.example.com", false, "/otlp/v1/traces", "/otlp/v1/metrics"},
		{"collector:4318", "collector:4318", false, "/v1/traces", "/v1/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseEndpoint(tt.in)
			assert.Equal(t, tt.host, got.host)
			assert.Equal(t, tt.insecure, got.insecure)
			assert.Equal(t, tt.traces, got.traces)
			assert.Equal(t, tt.metrics, got.metrics)
		})
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders("Authorization=Basic%20abc123, x-scope=tenant-1,broken,=nokey")
	assert.Equal(t, map[string]string{
		"Authorization": "Basic abc123",
		"x-scope":       "tenant-1",
	}, got)

	assert.Empty(t, ParseHeaders(""))
}

func TestTracer(t *testing.T) {
	assert.NotNil(t, Tracer("test-tracer"))
}
