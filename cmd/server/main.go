// Command main is the entry point for the publication engine server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/blob"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/bootstrap"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/config"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/middleware"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/observability"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/server"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.InitMiddleware(cfg)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "jsquared-blog",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampler,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemoContent: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	blobs := blob.NewDiskStore(cfg.BlobDir, cfg.PublicBaseURL)

	srv, err := server.NewServerWithDeps(cfg, db, redisClient, blobs)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "JSquared Blog API",
		BodyLimit: (cfg.BlobMaxUploadSizeMB + 1) * 1024 * 1024,
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Background publisher for scheduled posts.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go srv.Publisher().Run(sweepCtx, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		stopSweep()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
