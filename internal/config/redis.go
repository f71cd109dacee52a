package config

// Redis backs the distributed rate limiter. Connection parameters come from
// environment variables; when the server is unreachable at startup this
// returns nil and callers degrade by disabling rate limiting entirely.

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from REDIS_ADDR (or
// REDIS_HOST/REDIS_PORT), REDIS_PASSWORD and REDIS_DB. The returned client
// may be nil if a connection cannot be established within a short timeout.
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
