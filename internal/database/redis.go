package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/utils"
)

func NewRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	utils.GetLogger().WithField("addr", cfg.GetRedisAddr()).Info("connected to Redis")
	return client, nil
}
