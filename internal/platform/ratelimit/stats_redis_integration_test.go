//go:build integration

package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisStats_Record(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rdb := setupRedis(t)
	stats := NewRedisStats(rdb, WithStatsTTL(time.Hour))
	ctx := context.Background()
	at := time.Date(2024, 6, 12, 10, 4, 0, 0, time.UTC)

	require.NoError(t, stats.Record(ctx, Event{Allowed: true, Method: "GET", Route: "/recipes", At: at}))
	require.NoError(t, stats.Record(ctx, Event{Allowed: false, Method: "GET", Route: "/recipes", At: at}))

	total, err := rdb.HGetAll(ctx, stats.TotalKey()).Result()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"allowed": "1", "denied": "1"}, total)

	ttl, err := rdb.TTL(ctx, stats.MinuteKey(at)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	route, err := rdb.HGet(ctx, stats.RouteKey(), "GET /recipes:denied").Result()
	require.NoError(t, err)
	require.Equal(t, "1", route)
}
