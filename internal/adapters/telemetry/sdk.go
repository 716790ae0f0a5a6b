package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InitProvider installs an SDK tracer provider as the global one and returns
// its shutdown function. Without an exporter configured the spans stay
// in-process; exporters can be attached via the standard OTEL environment
// variables by a wrapping integration.
func InitProvider() func(context.Context) error {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
