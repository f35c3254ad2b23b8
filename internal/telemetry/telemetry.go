// Package telemetry installs the OpenTelemetry tracer provider used by the
// gin middleware and the feed selector.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by Init.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ErrUnknownExporter is returned by Init for an unsupported exporter name.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// Init sets the global tracer provider and propagator. With ExporterNone the
// global no-op provider is left in place. The returned shutdown flushes
// pending spans and must be called on exit.
func Init(ctx context.Context, serviceName, exporter string, out io.Writer) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	var spanExporter sdktrace.SpanExporter
	switch exporter {
	case "", ExporterNone:
		return noop, nil
	case ExporterStdout:
		spanExporter, err = stdouttrace.New(stdouttrace.WithWriter(out))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	res := resource.NewWithAttributes("", attribute.String("service.name", serviceName))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
