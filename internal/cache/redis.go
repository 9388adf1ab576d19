package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/stackit/backend/internal/config"
)

// NewRedisClient builds a client with short timeouts so a slow Redis never
// holds up a request for long.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// PingRedis checks connectivity.
func PingRedis(ctx context.Context, rdb *redis.Client) error {
	return rdb.Ping(ctx).Err()
}
