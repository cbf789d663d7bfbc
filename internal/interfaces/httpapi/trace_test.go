package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTraced(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: "/readyz", want: false},
		{path: "/HEALTH", want: false},
		{path: "/teams", want: true},
		{path: "/teams/healthz", want: true},
		{path: "/games/1", want: true},
		{path: "/", want: true},
		{path: "/docs", want: true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := traced(r); got != tt.want {
			t.Fatalf("traced(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}

func TestStartSpan_UntracedRequest(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.ListTeams")
	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())
}

func TestNameRouteSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("test").Start(context.Background(), "GET /teams/fram")
	var called bool
	h := nameRouteSpan("GET /teams/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/teams/fram", nil).WithContext(ctx))
	span.End()

	require.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /teams/{slug}", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("http.route", "/teams/{slug}"))
}
