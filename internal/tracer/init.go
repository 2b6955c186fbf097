package tracer

import (
	"context"
	"log"

	"mitr-be/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const ServiceName = "mitr-backend"

type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Init wires the global tracer provider from cfg. With tracing disabled, or
// when the exporter cannot be built, spans go to the default no-op provider
// and the returned ShutdownFunc does nothing.
func Init(cfg config.TracingConfig, environment string) ShutdownFunc {
	if !cfg.Enabled {
		log.Println("Tracing disabled (set OTEL_ENABLED=true to export spans)")
		return noop
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Printf("Warning: OTLP exporter unavailable, tracing disabled: %v", err)
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio(cfg.SampleRatio)))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ServiceName),
			semconv.DeploymentEnvironmentKey.String(environment),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Printf("Tracing exports to %s (sample ratio %.2f)", cfg.Endpoint, ratio(cfg.SampleRatio))

	return tp.Shutdown
}

// ratio clamps out-of-range sample ratios to always-sample.
func ratio(r float64) float64 {
	if r <= 0 || r > 1 {
		return 1
	}
	return r
}
