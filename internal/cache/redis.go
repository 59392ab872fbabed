package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	rcache "github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisTTL     = 10 * time.Minute
	defaultPingRetries  = 3
	localCacheSize      = 10_000
	redisCacheKeyPrefix = "marquee:cache/"
)

// RedisStore keeps entries in redis behind a small TinyLFU local tier.
type RedisStore struct {
	client *redis.Client
	data   *rcache.Cache
	ttl    time.Duration

	closeOnce sync.Once
	closeErr  error
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to redisURL ("redis://host:6379/0") and checks the
// connection before returning.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}

	client := redis.NewClient(opt)
	if err := pingWithRetry(ctx, client, defaultPingRetries); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{
		client: client,
		data: rcache.New(&rcache.Options{
			Redis:      client,
			LocalCache: rcache.NewTinyLFU(localCacheSize, ttl),
		}),
		ttl: ttl,
	}, nil
}

func redisCacheKey(name, key string) string {
	return redisCacheKeyPrefix + name + "/" + key
}

func (s *RedisStore) Get(ctx context.Context, name, key string) (string, error) {
	var val string
	err := s.data.Get(ctx, redisCacheKey(name, key), &val)
	if errors.Is(err, rcache.ErrCacheMiss) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, name, key string, val string) error {
	return s.data.Set(&rcache.Item{
		Ctx:   ctx,
		Key:   redisCacheKey(name, key),
		Value: val,
		TTL:   s.ttl,
	})
}

func (s *RedisStore) Purge(ctx context.Context, name, key string) error {
	err := s.data.Delete(ctx, redisCacheKey(name, key))
	if errors.Is(err, rcache.ErrCacheMiss) {
		return nil
	}
	return err
}

// Close releases the redis connection pool. It is idempotent.
func (s *RedisStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}

func pingWithRetry(ctx context.Context, client *redis.Client, maxRetries int) error {
	attempts := maxRetries + 1
	backoff := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}
