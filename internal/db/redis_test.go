package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "redis://host:port/notadb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis connection string")
}

func TestNewRedisClient_Container(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a redis container")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}

	connStr, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, connStr)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	got, err := client.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
