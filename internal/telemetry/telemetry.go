package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide structured logger. It discards everything until
// InitTelemetry replaces it.
var Logger = zap.NewNop()

var (
	serviceName    = "credit-payments"
	tracerProvider *sdktrace.TracerProvider
)

// Options controls how InitTelemetry builds the logger and the tracer provider.
type Options struct {
	// OTLPEndpoint is the host:port of an OTLP/HTTP collector. Spans are not
	// exported when it is empty.
	OTLPEndpoint string
	Development  bool
}

// InitTelemetry sets up the zap logger, the OpenTelemetry tracer provider and
// W3C trace-context propagation for the named service.
func InitTelemetry(name string, opts Options) error {
	var (
		logger *zap.Logger
		err    error
	)
	if opts.Development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Logger = logger.With(zap.String("service", name))
	serviceName = name

	res := resource.NewSchemaless(attribute.String("service.name", name))
	providerOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if opts.OTLPEndpoint != "" {
		exporter, err := otlptracehttp.New(context.Background(),
			otlptracehttp.WithEndpoint(opts.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("create otlp exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
	}

	tracerProvider = sdktrace.NewTracerProvider(providerOpts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return nil
}

// Shutdown flushes pending spans and buffered log entries.
func Shutdown(ctx context.Context) error {
	var errs []error
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	// Sync on stderr/stdout fails with EINVAL on some platforms; not worth reporting.
	_ = Logger.Sync()
	return errors.Join(errs...)
}
