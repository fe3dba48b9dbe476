package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/inspect"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
	"github.com/aretw0/espalier/pkg/observability"
)

func testHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()

	store := memory.New()
	pkg, err := domain.NewPackage("lib",
		domain.NewDecl(label.MustParse("//lib:core"), "library"),
	)
	require.NoError(t, err)
	require.NoError(t, store.Publish(context.Background(), pkg,
		domain.NewConfiguration("host", nil)))

	nodes := []domain.Node{
		domain.NewConfiguredHandle(label.MustParse("//lib:core"), "host"),
		domain.NewConfiguredHandle(label.MustParse("//lib:waiting"), "absent"),
		domain.NewHandle(label.MustParse("//lib:ghost")),
	}

	handler, err := NewHandler(inspect.New(store), nodes, opts...)
	require.NoError(t, err)
	return handler
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	rr := get(t, testHandler(t), "/healthz")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetContract(t *testing.T) {
	rr := get(t, testHandler(t), "/openapi.yaml")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "openapi: 3.0.3")
}

func TestListNodes(t *testing.T) {
	rr := get(t, testHandler(t), "/v1/nodes")

	assert.Equal(t, http.StatusOK, rr.Code)
	var views []nodeView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	assert.Equal(t, []nodeView{
		{Label: "//lib:core", Configuration: "host"},
		{Label: "//lib:waiting", Configuration: "absent"},
		{Label: "//lib:ghost"},
	}, views)
}

func TestGetPairing(t *testing.T) {
	handler := testHandler(t)

	t.Run("resolved", func(t *testing.T) {
		rr := get(t, handler, "/v1/pairings?label=//lib:core")

		assert.Equal(t, http.StatusOK, rr.Code)
		var report inspect.Report
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
		assert.Equal(t, inspect.StatusResolved, report.Status)
		assert.Equal(t, "library", report.Kind)
		assert.Equal(t, "host", report.Configuration)
	})

	t.Run("not ready is a regular outcome", func(t *testing.T) {
		rr := get(t, handler, "/v1/pairings?label=//lib:waiting")

		assert.Equal(t, http.StatusOK, rr.Code)
		var report inspect.Report
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
		assert.Equal(t, inspect.StatusNotReady, report.Status)
	})

	t.Run("fatal resolution maps to 500", func(t *testing.T) {
		rr := get(t, handler, "/v1/pairings?label=//lib:ghost")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var report inspect.Report
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
		assert.Equal(t, inspect.StatusFailed, report.Status)
		assert.Contains(t, report.Error, "declaration not found")
	})

	t.Run("missing parameter", func(t *testing.T) {
		rr := get(t, handler, "/v1/pairings")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "missing label parameter")
	})

	t.Run("malformed label", func(t *testing.T) {
		rr := get(t, handler, "/v1/pairings?label=lib:core")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown node", func(t *testing.T) {
		rr := get(t, handler, "/v1/pairings?label=//lib:other")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	handler := testHandler(t, WithMetricsHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	))

	rr := get(t, handler, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Without the option the route does not exist.
	rr = get(t, testHandler(t), "/metrics")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
