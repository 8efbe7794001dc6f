package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/recipebook/internal/cache"
	"github.com/socialchef/recipebook/internal/config"
	"github.com/socialchef/recipebook/internal/db"
	"github.com/socialchef/recipebook/internal/httpclient"
	"github.com/socialchef/recipebook/internal/importer"
	"github.com/socialchef/recipebook/internal/logger"
	"github.com/socialchef/recipebook/internal/metrics"
	"github.com/socialchef/recipebook/internal/sentry"
	"github.com/socialchef/recipebook/internal/services/recipe"
	"github.com/socialchef/recipebook/internal/services/scraper"
	"github.com/socialchef/recipebook/internal/telemetry"
	"github.com/socialchef/recipebook/internal/worker"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.AsyncImportEnabled() {
		log.Fatalf("REDIS_URL is required for the worker")
	}

	shutdownTelemetry, err := telemetry.InitTelemetry(ctx, telemetry.Settings{
		ServiceName:    cfg.ServiceName + "-worker",
		ServiceVersion: cfg.ServiceVersion,
		Env:            cfg.Env,
		Endpoint:       cfg.OtelExporterOTLPEndpoint,
		Headers:        telemetry.ParseHeaders(cfg.OtelExporterOTLPHeaders),
	})
	if err != nil {
		slog.Warn("Failed to init telemetry", "error", err)
	} else {
		defer shutdownTelemetry(ctx)
	}

	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName+"-worker", cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	slog.SetDefault(logger.New(cfg.Env, cfg.LogLevel))

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	queries := db.New(pool)

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	httpClient := httpclient.New(cfg.FetchTimeout())
	youtube := scraper.NewYouTubeClient(cfg.Extraction.YouTubeClientVersion, httpClient)
	fetcher := scraper.NewFetcher(httpClient, youtube, cfg.Extraction.MaxContentChars)
	registry := recipe.NewRegistryFromConfig(cfg.Extraction, httpClient)
	service := importer.NewService(queries, queries, fetcher, registry)

	workerMetrics, err := worker.NewJobMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	processor := worker.NewImportProcessor(
		service,
		cache.NewImportStatusStore(redisClient, cfg.ImportStatusTTL()),
		workerMetrics,
	)

	srv, err := worker.NewServer(cfg.RedisURL, 0)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}

	slog.Info("Starting worker")

	if err := srv.Start(worker.NewServeMux(processor)); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down worker...")
	srv.Shutdown()
}
