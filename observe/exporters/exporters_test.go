package exporters

import (
	"context"
	"errors"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"", "none", "stdout"} {
		exp, err := NewTracingExporter(ctx, name)
		if err != nil {
			t.Errorf("NewTracingExporter(%q): %v", name, err)
		}
		if exp == nil {
			t.Errorf("NewTracingExporter(%q) returned nil exporter", name)
		}
	}

	if _, err := NewTracingExporter(ctx, "jaeger"); err == nil {
		t.Error("expected error for unknown exporter")
	}
}

func TestNewTracingExporter_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	_, err := NewTracingExporter(context.Background(), "otlp")
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("err = %v, want ErrEndpointNotConfigured", err)
	}
}

func TestNewMetricsReader(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"", "none", "stdout", "prometheus"} {
		reader, err := NewMetricsReader(ctx, name)
		if err != nil {
			t.Errorf("NewMetricsReader(%q): %v", name, err)
			continue
		}
		if reader == nil {
			t.Errorf("NewMetricsReader(%q) returned nil reader", name)
			continue
		}
		_ = reader.Shutdown(ctx)
	}

	if _, err := NewMetricsReader(ctx, "statsd"); err == nil {
		t.Error("expected error for unknown reader")
	}
}

func TestNewMetricsReader_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	_, err := NewMetricsReader(context.Background(), "otlp")
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("err = %v, want ErrEndpointNotConfigured", err)
	}
}
