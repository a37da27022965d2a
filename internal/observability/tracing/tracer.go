// Package tracing provides OpenTelemetry tracing integration for HTTP
// requests and downstream museum API calls.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the relic-search application.
var tracer = otel.Tracer("relic-search")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "museum-search")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
