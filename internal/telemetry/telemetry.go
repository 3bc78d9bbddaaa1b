// Package telemetry sets up optional trace export for action runs.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "pr-commenter"
	tracerName  = "github.com/cchalm/pr-commenter"
)

// Provider manages trace export for a single action invocation. Export is
// opt-in: with no OTLP endpoint configured the provider is inert and spans go
// to the global no-op tracer. Every provider carries a unique run id so log
// lines and spans from the same invocation can be correlated
type Provider struct {
	tp    *sdktrace.TracerProvider
	runID string
}

// Enabled reports whether an OTLP trace endpoint is configured in the
// environment
func Enabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// NewProvider creates a telemetry provider. When export is enabled it
// installs a tracer provider with a batching OTLP/HTTP exporter; the exporter
// reads its endpoint and headers from the standard OTEL_* variables
func NewProvider(ctx context.Context, version string) (*Provider, error) {
	p := &Provider{runID: uuid.NewString()}

	if !Enabled() {
		return p, nil
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	p.tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(p.tp)

	return p, nil
}

// RunID returns the unique identifier of this invocation
func (p *Provider) RunID() string {
	return p.runID
}

// StartRun starts the span covering a whole action invocation
func (p *Provider) StartRun(ctx context.Context, owner, repo, eventName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, "action.run", trace.WithAttributes(
		attribute.String("github.repository", owner+"/"+repo),
		attribute.String("github.event_name", eventName),
		attribute.String("run.id", p.runID),
	))
}

// Shutdown flushes buffered spans and releases exporter resources
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	if err := p.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}
