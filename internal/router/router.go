package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/AdityaUmale/yt-analyzer/internal/handler"
	"github.com/AdityaUmale/yt-analyzer/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analysis *handler.AnalysisHandler
	Health   *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health checks (before API group, not rate limited)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	// Prometheus metrics
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")
	yt := api.Group("/youtube")

	yt.Post("/comments", h.Analysis.Analyze, middleware.NewAnalyzeRateLimiter().Handler())
	yt.Get("/test", h.Analysis.Test, middleware.NewDefaultRateLimiter().Handler())
}
