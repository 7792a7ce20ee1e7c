package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"crudapi/internal/config"
	"crudapi/internal/logger"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")

		resp, _ := app.Test(req)

		assert.Equal(t, "test-id-123", resp.Header.Get(RequestIDHeader))
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "test-id-123", buf.String())
	})

	for name, bad := range map[string]string{
		"should replace id with spaces": "id with spaces",
		"should replace oversized id":   strings.Repeat("a", 129),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(RequestIDHeader, bad)

			resp, _ := app.Test(req)

			rid := resp.Header.Get(RequestIDHeader)
			assert.NotEqual(t, bad, rid)
			_, err := uuid.Parse(rid)
			assert.NoError(t, err)
		})
	}
}

func TestLogger(t *testing.T) {
	newApp := func(buf *bytes.Buffer) *fiber.App {
		app := fiber.New()
		app.Use(RequestID())
		app.Use(Logger(logger.NewWithWriter(config.LogConfig{Level: "info"}, zapcore.AddSync(buf))))
		return app
	}

	t.Run("access entry", func(t *testing.T) {
		var buf bytes.Buffer
		app := newApp(&buf)
		app.Get("/test", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusAccepted) })

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "http_request", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.NotEmpty(t, entry["request_id"])
		assert.Equal(t, "GET", entry["method"])
		assert.Equal(t, "/test", entry["path"])
		assert.Equal(t, float64(fiber.StatusAccepted), entry["status"])
		assert.NotNil(t, entry["latency"])
		assert.NotEmpty(t, entry["ts"])
		assert.NotContains(t, entry, "trace_id")
	})

	t.Run("returned errors are rendered before logging", func(t *testing.T) {
		var buf bytes.Buffer
		app := newApp(&buf)
		app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrServiceUnavailable })

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "error", entry["level"])
		assert.Equal(t, float64(fiber.StatusServiceUnavailable), entry["status"])
	})
}
