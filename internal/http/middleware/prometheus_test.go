package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudapi/internal/errs"
)

func newPromApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(pm.Handler())
	return app, pm, reg
}

func TestPrometheusMiddleware_Counts(t *testing.T) {
	app, pm, _ := newPromApp(t)

	app.Get("/items", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Delete("/items", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/fiber-error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})
	app.Get("/exception", func(c *fiber.Ctx) error {
		return errs.New(http.StatusConflict, "duplicate key")
	})

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/items"},
		{http.MethodDelete, "/items"},
		{http.MethodGet, "/fiber-error"},
		{http.MethodGet, "/exception"},
	} {
		_, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/items", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.requestCount.WithLabelValues("DELETE", "/items", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/fiber-error", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/exception", "409")))
	// one series per request; earlier label values stay intact after later requests
	assert.Equal(t, 4, testutil.CollectAndCount(pm.requestCount))
}

func TestPrometheusMiddleware_ExcludeMetrics(t *testing.T) {
	app, _, reg := newPromApp(t)
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" {
			assert.Empty(t, mf.GetMetric())
		}
	}
}

func TestPrometheusMiddleware_PathPattern(t *testing.T) {
	app, pm, _ := newPromApp(t)
	app.Get("/api/v1/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/items/123", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/api/v1/items/:id", "200")))
	assert.NotZero(t, testutil.CollectAndCount(pm.requestDuration))
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
