package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crudapi/docs"
	"crudapi/internal/database"
)

// APIPrefix is where resources are mounted.
const APIPrefix = "/api/v1"

// Resource is a controller that can mount itself under APIPrefix.
type Resource interface {
	Path() string
	Register(r fiber.Router)
}

// Routes lists what RegisterRoutes mounts.
type Routes struct {
	Pinger    database.Pinger
	Gatherer  prometheus.Gatherer // nil disables /metrics
	Resources []Resource
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, rt Routes) {
	app.Get("/health", HealthCheck(rt.Pinger))
	app.Get("/healthz", LivenessProbe())

	if rt.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(rt.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})

	api := app.Group(APIPrefix)
	for _, res := range rt.Resources {
		res.Register(api.Group(res.Path()))
	}
}
