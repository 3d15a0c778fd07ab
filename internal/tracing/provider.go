// Package tracing sets up OpenTelemetry tracing for gesture classification.
//
// The recognizer opens one "gesture.classify" span per touch-end; this
// package decides where those spans go.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/swipe/internal/config"
	"github.com/zjrosen/swipe/internal/log"
)

// ServiceName identifies swipe in exported traces.
const ServiceName = "swipe"

const defaultOTLPEndpoint = "localhost:4317"

// Provider owns the SDK tracer provider, if tracing is enabled.
type Provider struct {
	sdk    *sdktrace.TracerProvider
	tracer trace.Tracer
}

// NewProvider builds a provider from cfg. Disabled tracing yields a no-op
// tracer and nothing is installed globally.
func NewProvider(cfg config.TracingConfig) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(ServiceName)}, nil
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		// NewSchemaless avoids schema URL conflicts with resource.Default()
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	sdk := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(sdk)

	log.Info(log.CatTrace, "tracing enabled", "exporter", cfg.Exporter, "sample_rate", cfg.SampleRate)
	return &Provider{sdk: sdk, tracer: sdk.Tracer(ServiceName)}, nil
}

func sampler(rate float64) sdktrace.Sampler {
	if rate <= 0 || rate >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
}

// newExporter returns nil for "none": spans are created but dropped.
func newExporter(cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "", "none":
		return nil, nil

	case "file":
		path := cfg.FilePath
		if path == "" {
			path = config.DefaultTracesFilePath()
		}
		if path == "" {
			return nil, fmt.Errorf("tracing.file_path is required for the file exporter")
		}
		exp, err := NewFileExporter(path)
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
		return exp, nil

	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exp, nil

	case "otlp":
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = defaultOTLPEndpoint
		}
		exp, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		return exp, nil
	}
	return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
}

// Tracer returns the tracer to hand to gesture.WithTracer.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are being recorded.
func (p *Provider) Enabled() bool {
	return p.sdk != nil
}

// Shutdown flushes pending spans. It is a no-op for a disabled provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
