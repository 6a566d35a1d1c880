// Package trace wires OpenTelemetry spans for the API server and dropctl.
package trace

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Namespace groups the server and the CLI under one service namespace.
const Namespace = "bucketdrop"

const defaultScope = "github.com/bucketdrop/service"

var scope atomic.Value

// Service identifies the process that emits spans.
type Service struct {
	Name        string
	Version     string
	Environment string // empty leaves deployment.environment unset
	Exporter    string // "grpc" ships OTLP, anything else drops spans
}

// NewProvider builds a tracer provider for svc and installs it globally.
// Spans from Start use svc.Name as their instrumentation scope afterwards.
func NewProvider(ctx context.Context, svc Service) (*sdktrace.TracerProvider, error) {
	res, err := newResource(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("trace resource for %s: %w", svc.Name, err)
	}

	exp, err := newExporter(ctx, svc.Exporter)
	if err != nil {
		return nil, err
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

	if svc.Name != "" {
		scope.Store(svc.Name)
	}
	return tp, nil
}

func newExporter(ctx context.Context, kind string) (sdktrace.SpanExporter, error) {
	if kind != "grpc" {
		return tracetest.NewNoopExporter(), nil
	}
	exp, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("otlp grpc exporter: %w", err)
	}
	return exp, nil
}

// Start opens a span on the global provider.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(scopeName()).Start(ctx, name, trace.WithAttributes(attrs...))
}

func scopeName() string {
	if s, ok := scope.Load().(string); ok {
		return s
	}
	return defaultScope
}

// Fail records err on span and returns it unchanged.
func Fail(span trace.Span, err error) error {
	if err == nil || span == nil {
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func newResource(ctx context.Context, svc Service) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(svc.Name),
		semconv.ServiceVersionKey.String(svc.Version),
		semconv.ServiceNamespaceKey.String(Namespace),
		semconv.ServiceInstanceIDKey.String(uuid.NewString()),
	}
	if svc.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentKey.String(svc.Environment))
	}

	return resource.New(ctx,
		resource.WithHost(),
		resource.WithProcessRuntimeName(),
		resource.WithTelemetrySDK(),
		resource.WithFromEnv(),
		resource.WithAttributes(attrs...),
	)
}
