package cache

import (
	"context"
	"testing"
	"time"

	testcontainers "github.com/testcontainers/testcontainers-go"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisStoreForTest(t *testing.T) *RedisStore {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := rediscontainer.Run(ctx, "redis:7.2-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("container connection string: %v", err)
	}

	store, err := NewRedisStore(ctx, url, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
