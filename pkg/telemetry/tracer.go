package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/go-drift/vdom"

// Tracer returns the engine tracer from the global provider. The global
// provider is a no-op until the application installs one.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartFlush opens a span around one scheduler flush.
func StartFlush(ctx context.Context, mutations, instances int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "vdom.flush", trace.WithAttributes(
		attribute.Int("vdom.mutations", mutations),
		attribute.Int("vdom.instances", instances),
	))
}

// StartRender opens a span around a root render.
func StartRender(ctx context.Context) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "vdom.render")
}
