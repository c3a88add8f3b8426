package database

import (
	"context"

	"github.com/bive/backend/internal/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// OpenRedis returns nil when Redis is disabled or unreachable; callers run without it.
func OpenRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if !cfg.Enabled {
		logger.Info("[DATABASE] redis disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("[DATABASE] redis connection failed, continuing without redis", zap.Error(err))
		_ = rdb.Close()
		return nil
	}

	logger.Info("[DATABASE] redis connection established", zap.String("addr", cfg.Addr()))
	return rdb
}
