package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ToolSpan starts a span for one tool execution. Span names follow the
// form tool.exec.<name>.
func ToolSpan(ctx context.Context, tracer trace.Tracer, tool string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "tool.exec."+tool,
		trace.WithAttributes(attribute.String("tool.name", tool)),
	)
}

// EndSpan ends the span, recording the error status and whether the result
// came from cache.
func EndSpan(span trace.Span, cached bool, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Bool("tool.cached", cached))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
