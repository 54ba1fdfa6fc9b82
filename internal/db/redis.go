package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates a Redis client for connString and pings it. The
// connection string is either a host:port address or a redis:// URL.
func NewRedisClient(ctx context.Context, connString string) (*redis.Client, error) {
	opts := &redis.Options{Addr: connString}
	if strings.Contains(connString, "://") {
		var err error
		if opts, err = redis.ParseURL(connString); err != nil {
			return nil, fmt.Errorf("invalid redis connection string: %w", err)
		}
	}

	client := redis.NewClient(opts)

	// Ping the server to ensure the connection is established.
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
