package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"noterefiner/docs"
	"noterefiner/internal/app"
	"noterefiner/internal/config"
	handlers "noterefiner/internal/http/handler"
	"noterefiner/internal/http/middleware"
	"noterefiner/internal/notestore"
	"noterefiner/internal/otel"
	"noterefiner/internal/refine"
	"noterefiner/internal/service"
	"noterefiner/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title NoteRefiner API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatal("failed to load config", zap.Error(err))
	}
	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error {
	shutdownTracing, err := otel.Init(ctx, "noterefiner", log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	// Open the key-value backend that holds the saved notes
	backend, err := app.OpenBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn("closing store backend", zap.Error(err))
		}
	}()

	store := notestore.New(backend.KV, cfg.Store.Key, notestore.WithLogger(log))
	log.Info("notes loaded",
		zap.String("backend", cfg.Store.Backend),
		zap.String("key", store.Key()),
		zap.Int("count", len(store.Load(ctx))),
	)

	refiner, err := refine.NewAnthropic(cfg.Refiner, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	refineSvc, err := service.NewRefineService(refiner, cfg.Refiner.MaxNoteChars, log, reg)
	if err != nil {
		return err
	}
	noteSvc := service.NewNoteService(store)

	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	fiberApp.Use(middleware.RequestID())
	fiberApp.Use(otelfiber.Middleware())
	fiberApp.Use(middleware.Logger(log))
	fiberApp.Use(metrics.Handler())

	// Swagger UI with dynamic host and scheme
	fiberApp.Use("/swagger", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return c.Next()
	})

	handlers.RegisterRoutes(fiberApp, handlers.Deps{
		Notes:   noteSvc,
		Refine:  refineSvc,
		Health:  backend,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Log:     log,
	})

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", addr), zap.String("app_host", cfg.AppHost))
		return fiberApp.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return fiberApp.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
