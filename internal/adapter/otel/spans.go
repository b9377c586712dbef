package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "pagesmith"

// StartPageSpan starts a span for building one page model.
func StartPageSpan(ctx context.Context, dataset, path string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "page.build",
		trace.WithAttributes(
			attribute.String("tenant.dataset", dataset),
			attribute.String("page.path", path),
		),
	)
}

// StartFetchSpan starts a span for one content store query.
func StartFetchSpan(ctx context.Context, dataset, query string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "content.fetch",
		trace.WithAttributes(
			attribute.String("tenant.dataset", dataset),
			attribute.String("content.query", query),
		),
	)
}

// StartRenderSpan starts a span for composing a page's sections.
func StartRenderSpan(ctx context.Context, dataset string, sectionCount int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "sections.render",
		trace.WithAttributes(
			attribute.String("tenant.dataset", dataset),
			attribute.Int("sections.count", sectionCount),
		),
	)
}
