// Package tracing wraps OpenTelemetry span creation for the suggestion
// pipeline. Spans are exported to a writer (stderr by default) when enabled;
// otherwise a no-op tracer is used.
package tracing

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bobmcallan/vire-options/internal/config"
)

// Tracer starts spans for pipeline stages.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
}

// New creates a Tracer from config, exporting to stderr.
func New(cfg config.TracingConfig) (*Tracer, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a Tracer that exports spans as JSON to w.
func NewWithWriter(cfg config.TracingConfig, w io.Writer) (*Tracer, error) {
	if !cfg.Enabled {
		return Disabled(), nil
	}

	name := cfg.ServiceName
	if name == "" {
		name = "vire-options"
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(name),
			semconv.ServiceVersion(config.GetVersion()),
		),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Tracer{
		tracer:   provider.Tracer(name),
		provider: provider,
		enabled:  true,
	}, nil
}

// Disabled returns a Tracer whose spans record nothing.
func Disabled() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer("vire-options")}
}

// Enabled reports whether spans are exported.
func (t *Tracer) Enabled() bool {
	return t.enabled
}

// StartSpan starts a span named name with optional attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err (if any) on span and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// TraceFields returns the trace and span IDs of the span in ctx.
func TraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

// Shutdown flushes pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}
