package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ghalass/gmao-pro-sub001/common/config"

	"github.com/go-redis/redis/v8"
)

// OpenRedis connects to the session Redis and pings it.
func OpenRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return c, nil
}
