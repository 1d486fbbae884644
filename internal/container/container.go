package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/interviewace-api/internal/aiquestion"
	"github.com/saulo-duarte/interviewace-api/internal/auth"
	"github.com/saulo-duarte/interviewace-api/internal/config"
	"github.com/saulo-duarte/interviewace-api/internal/mailer"
	"github.com/saulo-duarte/interviewace-api/internal/middlewares"
	"github.com/saulo-duarte/interviewace-api/internal/storage"
	"github.com/saulo-duarte/interviewace-api/internal/user"
)

type Container struct {
	Settings            *config.Settings
	UserContainer       *user.UserContainer
	AIQuestionContainer *aiquestion.AIQuestionContainer
	RateLimiter         *middlewares.RateLimiter
	Redis               *redis.Client
}

func New(ctx context.Context) (*Container, error) {
	config.Init()
	log := config.WithContext(ctx)

	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	auth.Init()

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return nil, err
	}

	if err := config.Connect(ctx, settings.DatabaseDSN); err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := config.DB.WithContext(ctx).AutoMigrate(&user.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users: %w", err)
	}

	var redisClient *redis.Client
	if settings.AI.CooldownBackend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     settings.Redis.Addr,
			Password: settings.Redis.Password,
			DB:       settings.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable; AI cooldown will fail open until it recovers")
		}
	}

	var avatars user.AvatarStore
	store, err := storage.NewAvatarStore(ctx, settings.MinIO)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("MINIO_ENDPOINT is not set; avatar uploads are disabled")
	case err != nil:
		log.WithError(err).Error("avatar storage unavailable; avatar uploads are disabled")
	default:
		avatars = store
	}

	userContainer := user.NewUserContainer(
		config.DB,
		passwords,
		settings.JWT,
		avatars,
		mailer.New(settings.SMTP, user.ResetCodeTTL),
	)

	var cmdable redis.Cmdable
	if redisClient != nil {
		cmdable = redisClient
	}
	aiContainer, err := aiquestion.NewAIQuestionContainer(ctx, settings.AI, cmdable)
	if err != nil {
		return nil, err
	}

	var limiter *middlewares.RateLimiter
	if settings.RateLimit.Enabled {
		limiter = middlewares.NewRateLimiter(settings.RateLimit)
	}

	return &Container{
		Settings:            settings,
		UserContainer:       userContainer,
		AIQuestionContainer: aiContainer,
		RateLimiter:         limiter,
		Redis:               redisClient,
	}, nil
}

func (c *Container) Close() error {
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if config.DB != nil {
		if sqlDB, err := config.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
