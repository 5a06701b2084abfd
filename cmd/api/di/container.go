package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"usuarios-api/cmd/api/infrastructure"
	"usuarios-api/internal/adapter/cache"
	"usuarios-api/internal/adapter/db/postgres"
	ginhandler "usuarios-api/internal/adapter/gin/handler"
	"usuarios-api/internal/adapter/gin/middleware"
	"usuarios-api/internal/adapter/repository/cached"
	"usuarios-api/internal/bootstrap"
	"usuarios-api/internal/config"
	"usuarios-api/internal/usecase/user"
	"usuarios-api/pkg/metrics"
	redisclient "usuarios-api/pkg/redis"
)

const metricsNamespace = "usuarios_api"

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	Store         *postgres.Store
	RedisClient   *redisclient.Client
	Metrics       *metrics.Metrics
	UserUC        user.Usecase
	RateLimiter   *middleware.RateLimiter
	UserHandler   *ginhandler.UserHandler
	StatusHandler *ginhandler.StatusHandler
}

// NewContainer creates and initializes all application dependencies.
// The database is not contacted here.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	store := postgres.NewStore(db, l)

	var repo user.Repository = postgres.NewUserRepoPG(db, l)
	var rateLimiter *middleware.RateLimiter
	if rdb != nil {
		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(repo, userCache, l)

		if cfg.RateLimit.Enabled {
			rateLimiter = middleware.NewRateLimiter(
				rdb.Client,
				middleware.RateLimiterConfig{
					RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
					BurstCapacity:     cfg.RateLimit.BurstCapacity,
				},
				l,
			)
		}
	}

	userUC := user.New(repo, l)

	return &Container{
		Config:        cfg,
		Logger:        l,
		DB:            db,
		Store:         store,
		RedisClient:   rdb,
		Metrics:       metrics.New(metricsNamespace),
		UserUC:        userUC,
		RateLimiter:   rateLimiter,
		UserHandler:   ginhandler.NewUserHandler(userUC, l),
		StatusHandler: ginhandler.NewStatusHandler(store, cfg.DB.Name, cfg.DB.Host, l),
	}, nil
}

// Bootstrapper returns the sequencer that waits for the database and ensures
// the schema before the API starts serving.
func (c *Container) Bootstrapper() *bootstrap.Sequencer {
	return bootstrap.New(c.Store, bootstrap.Config{
		MaxRetries:     c.Config.DB.BootstrapMaxRetries,
		Delay:          time.Duration(c.Config.DB.BootstrapDelaySeconds) * time.Second,
		AttemptTimeout: 10 * time.Second,
	}, c.Logger, bootstrap.WithRecorder(c.Metrics))
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
