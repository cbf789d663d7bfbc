package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPI_ETag(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "application/yaml; charset=utf-8", rec.Header().Get("Content-Type"))

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	req.Header.Set("If-None-Match", etag)
	cached := httptest.NewRecorder()
	router.ServeHTTP(cached, req)
	assert.Equal(t, http.StatusNotModified, cached.Code)
	assert.Zero(t, cached.Body.Len())

	req.Header.Set("If-None-Match", `"stale"`)
	stale := httptest.NewRecorder()
	router.ServeHTTP(stale, req)
	assert.Equal(t, http.StatusOK, stale.Code)
}

func TestSwaggerUI_PointsAtDocument(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `url: "/openapi.yaml"`)
}
