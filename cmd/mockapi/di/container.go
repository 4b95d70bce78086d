package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-console/cmd/mockapi/infrastructure"
	"user-crud-console/internal/adapter/cache"
	"user-crud-console/internal/adapter/db/gormstore"
	ginhandler "user-crud-console/internal/adapter/gin/handler"
	grpcadapter "user-crud-console/internal/adapter/grpc"
	"user-crud-console/internal/adapter/repository/cached"
	"user-crud-console/internal/config"
	"user-crud-console/internal/usecase/user"
	"user-crud-console/pkg/ratelimit"
	redisclient "user-crud-console/pkg/redis"
)

// Container holds all mock API dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil when Redis is disabled
	UserUC      user.Usecase
	RateLimiter *ratelimit.Limiter // nil when rate limiting is disabled
	GinHandler  *ginhandler.UserHandler
	Health      *grpcadapter.HealthService
}

// NewContainer opens the store, migrates and seeds it, and wires the layers.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c := &Container{Config: cfg, Logger: l, DB: db}

	dbRepo := gormstore.NewUserRepo(db, l)
	if err := dbRepo.Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := dbRepo.Seed(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	var repo user.Repository = dbRepo
	if c.RedisClient != nil {
		userCache := cache.NewRedisUserCache(
			c.RedisClient.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewUserRepository(dbRepo, userCache, l)
	}

	if cfg.RateLimit.Enabled {
		c.RateLimiter, err = ratelimit.New(c.RedisClient.Client, ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
		}, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	c.UserUC = user.New(repo, l)
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.Health = grpcadapter.NewHealthService(sqlDB, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
