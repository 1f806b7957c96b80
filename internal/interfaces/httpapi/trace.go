package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("cricketstats/internal/interfaces/httpapi")

// startSpan opens a handler span under the request's server span. Without
// a valid parent (filtered routes like /healthz) or for names outside the
// handler namespace it hands back a no-op span, so helpers never become
// standalone roots.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !shouldCreateHTTPAPISpan(name) || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, name)
}

// handlerSpan is startSpan plus the request attributes shared by every
// handler.
func handlerSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx, span := startSpan(r.Context(), name)
	span.SetAttributes(
		attribute.String("http.request.method", r.Method),
		attribute.String("http.route", r.Pattern),
	)
	return ctx, span
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
