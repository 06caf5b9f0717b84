package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/syaikhipin/llm-farm/internal/advisor"
	"github.com/syaikhipin/llm-farm/internal/agridata"
	"github.com/syaikhipin/llm-farm/internal/agridata/sources"
	httpapi "github.com/syaikhipin/llm-farm/internal/api/http"
	"github.com/syaikhipin/llm-farm/internal/cache"
	"github.com/syaikhipin/llm-farm/internal/catalog"
	"github.com/syaikhipin/llm-farm/internal/config"
	"github.com/syaikhipin/llm-farm/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound source calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// One cache instance owned by the aggregation service, swept periodically.
	dataCache := cache.New(cfg.CacheTTL)

	dataService := agridata.NewService(dataCache, agridata.Sources{
		Sustainability: sources.NewFSDNSource(httpClient),
		Practices:      sources.NewFaSTSource(httpClient),
		Market:         sources.NewMarketSource(httpClient),
		Weather:        sources.NewOpenWeatherSource(httpClient, cfg.OpenWeatherAPIKey),
	})

	// Region catalog: built-ins plus env-defined extras.
	regions := catalog.Builtin()
	for _, extra := range cfg.ExtraRegions {
		if err := regions.Add(extra, cfg.GeocoderAPIKey); err != nil {
			log.Fatalf("failed to register region %s: %v", extra.ID, err)
		}
	}

	adv := advisor.New(dataService, regions, advisor.NewGroqClient(cfg.GroqAPIKey), cfg.Model)

	// Periodic stale-entry sweep + snapshot prewarm.
	sched := scheduler.New(dataCache, dataService, regions.All(), cfg.SweepInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "llm-farm",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "llm-farm",
		})
	})

	httpapi.RegisterRoutes(app, adv)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
