package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/AdityaUmale/yt-analyzer/internal/config"
	"github.com/AdityaUmale/yt-analyzer/internal/db"
	"github.com/AdityaUmale/yt-analyzer/internal/gemini"
	"github.com/AdityaUmale/yt-analyzer/internal/handler"
	"github.com/AdityaUmale/yt-analyzer/internal/metrics"
	"github.com/AdityaUmale/yt-analyzer/internal/middleware"
	"github.com/AdityaUmale/yt-analyzer/internal/repository"
	"github.com/AdityaUmale/yt-analyzer/internal/router"
	"github.com/AdityaUmale/yt-analyzer/internal/service"
	"github.com/AdityaUmale/yt-analyzer/internal/youtube"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "yt-analyzer")

	if cfg.YouTubeAPIKey == "" {
		log.Fatal("YOUTUBE_API_KEY is required")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	repo := repository.NewAnalysisRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	metrics.Init(pool)

	ytLog := middleware.Logger.With().Str("component", "youtube").Logger()
	fetcher := youtube.NewBreakerClient(
		youtube.NewClient(cfg.YouTubeAPIKey, cfg.MaxCommentPages, ytLog),
		ytLog,
	)

	classifier, err := gemini.NewClassifier(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BatchSize:  cfg.ClassifyBatchSize,
		BatchDelay: time.Duration(cfg.ClassifyBatchDelayMs) * time.Millisecond,
	}, middleware.Logger.With().Str("component", "classifier").Logger())
	if err != nil {
		log.Fatalf("failed to create classifier: %v", err)
	}

	svc := service.NewAnalysisService(
		fetcher, classifier, repo, cache,
		cfg.AnalysisCommentCap,
		middleware.Logger.With().Str("component", "pipeline").Logger(),
	)

	app := fiber.New(fiber.Config{
		AppName:      "YT Comment Analyzer API",
		ServerHeader: "yt-analyzer",
	})

	router.Setup(app, &router.Handlers{
		Analysis: handler.NewAnalysisHandler(svc),
		Health:   handler.NewHealthHandler(pool, cache.Client()),
	}, cfg.CORSOrigins)

	go func() {
		log.Printf("yt-analyzer backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
