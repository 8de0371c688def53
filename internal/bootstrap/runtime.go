// Package bootstrap wires together the runtime dependencies shared by the
// server entry point and integration tooling.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/cache"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/config"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/database"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoContent bool
}

// InitRuntime connects to the database and Redis and optionally seeds demo
// content in development.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May result in a nil client if unreachable; the cache degrades to off.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoContent && strings.EqualFold(cfg.Env, "development") {
		if err := seed.Demo(db, seed.Options{}); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo content: %w", err)
		}
	}

	return db, r, nil
}
