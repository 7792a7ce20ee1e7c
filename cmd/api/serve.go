package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"crudapi/internal/config"
	"crudapi/internal/http/handler"
	"crudapi/internal/http/middleware"
	"crudapi/internal/model"
	"crudapi/internal/otel"
	"crudapi/internal/service"
	"crudapi/internal/storage"
	"crudapi/internal/validation"
)

const serviceName = "crudapi"

var initTracing = otel.Init

func runServe(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error {
	shutdownTracing, err := initTracing(ctx, serviceName, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return errors.Join(err, shutdownTracing(context.Background()))
	}

	var exporter service.Exporter
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return errors.Join(
				fmt.Errorf("failed to initialize object storage: %w", err),
				st.close(context.Background()),
				shutdownTracing(context.Background()),
			)
		}
		expiry := time.Duration(cfg.ExportURLExpirySec) * time.Second
		exporter = service.NewExporter[model.Item](st.items, objStore, model.ItemCollection, expiry)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return errors.Join(
			fmt.Errorf("failed to register metrics: %w", err),
			st.close(context.Background()),
			shutdownTracing(context.Background()),
		)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		switch c.Path() {
		case "/metrics", "/healthz":
			return true
		}
		return false
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())

	items := handler.NewController[model.Item, handler.CreateItemRequest, handler.UpdateItemRequest, handler.ItemFilter](
		"/"+model.ItemCollection,
		service.NewCRUDService[model.Item](st.items),
		exporter,
		validation.New(),
		log,
	)

	handler.RegisterRoutes(app, handler.Routes{
		Pinger:    st.pinger,
		Gatherer:  reg,
		Resources: []handler.Resource{items},
	})

	addr := ":" + cfg.Port
	listenErr := make(chan error, 1)
	go func() {
		log.Info("server_starting",
			zap.String("addr", addr),
			zap.String("store_driver", cfg.StoreDriver),
			zap.Bool("exports_enabled", exporter != nil),
		)
		listenErr <- app.Listen(addr)
	}()

	var serveErr error
	select {
	case serveErr = <-listenErr:
		if serveErr != nil {
			serveErr = fmt.Errorf("failed to start server: %w", serveErr)
		}
	case <-ctx.Done():
		log.Info("server_stopping", zap.String("reason", "signal"))
	}

	timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	errs := []error{serveErr}
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := st.close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}

	err = errors.Join(errs...)
	if err == nil {
		log.Info("server_stopped")
	}
	return err
}
