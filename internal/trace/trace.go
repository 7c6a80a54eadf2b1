// Package trace wires OpenTelemetry for the blob client and blobctl.
package trace

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
)

// Exporter names accepted by NewProvider.
const (
	ExporterNoop = "noop"
	ExporterGRPC = "grpc"
)

const defaultTracerName = "github.com/Aurora-Science-Hub/Framework"

// tracerName holds the instrumentation name handed to Start. NewProvider
// may replace it while spans are being started on other goroutines.
var tracerName atomic.Value

func init() {
	tracerName.Store(defaultTracerName)
}

func currentTracerName() string {
	return tracerName.Load().(string)
}

// NewProvider installs a global tracer provider for the named service. The
// caller owns the provider and must Shut it down to flush spans.
func NewProvider(ctx context.Context, exporter, name, version string) (*sdktrace.TracerProvider, error) {
	exp, err := newExporter(ctx, exporter)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithHost(),
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(name),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if name != "" {
		tracerName.Store(name)
	}
	return tp, nil
}

func newExporter(ctx context.Context, name string) (sdktrace.SpanExporter, error) {
	switch name {
	case "", ExporterNoop:
		return tracetest.NewNoopExporter(), nil
	case ExporterGRPC:
		exp, err := otlptracegrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", name)
	}
}

// Start opens a span on the global tracer provider.
func Start(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(currentTracerName()).Start(ctx, name)
}

// RecordError marks span as failed with err and returns err unchanged, so
// it can wrap a return statement.
func RecordError(span trace.Span, err error, msg string) error {
	if span == nil || err == nil {
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
