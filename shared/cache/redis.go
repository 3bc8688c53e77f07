package cache

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"carelink-backend/shared/config"
)

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the shared Redis client, creating it on first use
func Client() *redis.Client {
	once.Do(func() {
		cfg := config.GetConfig()
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDBNumber(),
		})

		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Printf("❌ Redis connection failed (%s): %v", cfg.RedisAddr(), err)
		} else {
			log.Printf("✅ Redis connected - %s DB:%d", cfg.RedisAddr(), cfg.RedisDBNumber())
		}
	})
	return client
}

// ViewKey builds the cache key under which a rendered view is stored
func ViewKey(path string) string {
	return fmt.Sprintf("view:%s", path)
}

// RateLimitKey builds the counter key for a per-actor event window
func RateLimitKey(eventType, actorKey string) string {
	return fmt.Sprintf("ratelimit:%s:%s", eventType, actorKey)
}
