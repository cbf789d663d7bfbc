package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("gameday-api/internal/interfaces/httpapi")

// Probes are polled constantly and never traced.
var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

func traced(r *http.Request) bool {
	_, skip := untracedPaths[strings.ToLower(strings.TrimSpace(r.URL.Path))]
	return !skip
}

// startSpan opens a handler span under the request span. Untraced requests
// keep their context and get a no-op span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return tracer.Start(ctx, name)
}

// nameRouteSpan renames the request span after the mux pattern, so
// GET /teams/fram and GET /teams/kr share the name "GET /teams/{slug}".
func nameRouteSpan(pattern string, next http.HandlerFunc) http.HandlerFunc {
	_, route, _ := strings.Cut(pattern, " ")
	return func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		span.SetName(pattern)
		span.SetAttributes(semconv.HTTPRoute(route))
		next(w, r)
	}
}
