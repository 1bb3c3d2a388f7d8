package config

// Redis backs the public-catalog response cache and the rate limiter.
// Both features degrade gracefully: when the connection cannot be
// established at startup this constructor returns nil and the middleware
// treats a nil client as "feature off".

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_ADDR (or
// REDIS_HOST/REDIS_PORT), REDIS_PASSWORD and REDIS_DB.  It returns nil
// when the server cannot be reached.
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			dbNum = n
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbNum,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

// CacheTTL returns the lifetime of public-catalog cache entries
// (CACHE_TTL, default 30s).
func CacheTTL() time.Duration {
	if d, err := time.ParseDuration(os.Getenv("CACHE_TTL")); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// RateLimitPerMinute returns the per-user-per-route request budget
// (RATE_LIMIT_PER_MINUTE, default 120; 0 disables the limiter).
func RateLimitPerMinute() int {
	if n, err := strconv.Atoi(os.Getenv("RATE_LIMIT_PER_MINUTE")); err == nil && n >= 0 {
		return n
	}
	return 120
}
