package observability

import (
	"context"
	"testing"

	"github.com/signalsfoundry/planetary-interior/internal/logging"
)

func TestTracingConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*TracingConfig)
		wantErr bool
	}{
		{"defaults", func(*TracingConfig) {}, false},
		{"otlp", func(c *TracingConfig) { c.Exporter = "OTLP" }, false},
		{"unknown exporter", func(c *TracingConfig) { c.Exporter = "zipkin" }, true},
		{"negative ratio", func(c *TracingConfig) { c.SampleRatio = -0.1 }, true},
		{"ratio above one", func(c *TracingConfig) { c.SampleRatio = 1.5 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultTracingConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), DefaultTracingConfig(), logging.NewForTest(t))
	if err != nil {
		t.Fatalf("InitTracing error: %v", err)
	}
	_, span := Tracer().Start(context.Background(), "disabled-span")
	if span.SpanContext().IsValid() {
		t.Fatalf("disabled tracing produced a sampled span")
	}
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown, nil)
}

func TestInitTracingRejectsBadExporter(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Exporter = "carrier-pigeon"
	if _, err := InitTracing(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for unknown exporter")
	}
}
