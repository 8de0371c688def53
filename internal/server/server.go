// Package server contains the HTTP handlers for the publication API.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/blob"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/cache"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/config"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/database"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/middleware"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/repository"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	postRepo       repository.PostRepository
	galleryRepo    repository.GalleryRepository
	tagRepo        repository.TagRepository
	blobs          blob.Store
	postService    *service.PostService
	galleryService *service.GalleryService
	tagService     *service.TagService
	layoutService  *service.LayoutService
	publisher      *service.Publisher
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	blobs := blob.NewDiskStore(cfg.BlobDir, cfg.PublicBaseURL)

	return NewServerWithDeps(cfg, db, cache.GetClient(), blobs)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, blobs blob.Store) (*Server, error) {
	postRepo := repository.NewPostRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	tagRepo := repository.NewTagRepository(db)

	prom := middleware.InitMetrics("jsquared-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		postRepo:       postRepo,
		galleryRepo:    galleryRepo,
		tagRepo:        tagRepo,
		blobs:          blobs,
	}
	server.postService = service.NewPostService(postRepo)
	server.galleryService = service.NewGalleryService(postRepo, galleryRepo, blobs)
	server.tagService = service.NewTagService(tagRepo, postRepo)
	server.layoutService = service.NewLayoutService(postRepo)
	server.publisher = service.NewPublisher(postRepo)

	return server, nil
}

// Publisher exposes the sweep service so the bootstrap layer can run it on
// its own cadence.
func (s *Server) Publisher() *service.Publisher {
	return s.publisher
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "JSquared Blog Metrics Dashboard",
	}))

	// Uploaded image blobs
	if s.config.BlobDir != "" {
		app.Static("/media/i", s.config.BlobDir)
	}

	// Public post routes (browse)
	publicPosts := api.Group("/posts")
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/:id/images", s.GetPostImages)
	publicPosts.Get("/:id", s.GetPost)

	// Public tag vocabulary
	api.Get("/tags", s.GetTags)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/mine/all", s.GetMyPosts)
	// Specific /:id/:resource routes BEFORE generic /:id routes
	posts.Post("/:id/images/upload", middleware.RateLimit(
		s.redis, 10, time.Minute, "upload_images"), s.UploadPostImages)
	posts.Put("/:id/images/order", s.ReorderPostImages)
	posts.Put("/:id/images/:imageId/focal-point", s.UpdateImageFocalPoint)
	posts.Put("/:id/images/:imageId/alt-text", s.UpdateImageAltText)
	posts.Delete("/:id/images/:imageId", s.DeletePostImage)
	posts.Post("/:id/images", s.AddPostImage)
	posts.Put("/:id/tags", s.SetPostTags)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Admin routes
	admin := protected.Group("/admin", middleware.AdminRequired)
	admin.Post("/layouts/reshuffle", s.ReassignLayouts)
	admin.Post("/publish-sweep", s.RunPublishSweep)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The cache is optional; readiness only degrades, it does not fail.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
