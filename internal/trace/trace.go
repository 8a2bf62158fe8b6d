// Package trace owns the process tracer: a stdout span exporter wired into
// the global otel provider. Disabled entirely when LOG_TRACING_ENABLED is
// false, in which case every helper degrades to a no-op.
package trace

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "stocksafe"

var provider *sdktrace.TracerProvider

// Init sets up the stdout exporter and installs the provider globally.
// Tracing defaults to on; set LOG_TRACING_ENABLED=false to silence it.
func Init() error {
	if !Enabled() {
		return nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return err
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return err
	}

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return nil
}

// Enabled reports whether spans are being recorded.
func Enabled() bool {
	return os.Getenv("LOG_TRACING_ENABLED") != "false"
}

// Shutdown flushes pending spans. Safe to call when Init never ran.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	return provider.Shutdown(ctx)
}

// StartSpan opens a span under the installed provider. With tracing off it
// hands back the ambient span so callers never branch.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if provider == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return otel.Tracer(serviceName).Start(ctx, name, opts...)
}

// GetTraceFields extracts the current trace and span IDs for log
// correlation; ok is false outside any recorded span.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if provider == nil || !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
