// Package cache holds rendered analyzer reports. Entries are addressed by a
// report name and a key; a miss is an empty string with a nil error.
package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Store is a string cache keyed by (name, key).
type Store interface {
	Get(ctx context.Context, name, key string) (string, error)
	Set(ctx context.Context, name, key string, val string) error
	Purge(ctx context.Context, name, key string) error
}

// Config selects a cache backend.
type Config struct {
	Backend  string        `json:"backend" yaml:"backend"`
	RedisURL string        `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	Size     int           `json:"size,omitempty" yaml:"size,omitempty"`
	TTL      time.Duration `json:"-" yaml:"-"`
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone, BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("cache: redis_url is required for the %s backend", BackendRedis)
		}
	default:
		return fmt.Errorf("cache: unknown backend %q, must be one of: none, memory, redis", c.Backend)
	}
	if c.Size < 0 {
		return fmt.Errorf("cache: size must be non-negative, got %d", c.Size)
	}
	if c.TTL < 0 {
		return fmt.Errorf("cache: ttl must be non-negative, got %s", c.TTL)
	}
	return nil
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendMemory:
		return NewMemStore(cfg.Size, cfg.TTL), nil
	case BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	default:
		return NoopStore{}, nil
	}
}

// NoopStore never holds anything.
type NoopStore struct{}

var _ Store = NoopStore{}

func (NoopStore) Get(context.Context, string, string) (string, error) { return "", nil }
func (NoopStore) Set(context.Context, string, string, string) error   { return nil }
func (NoopStore) Purge(context.Context, string, string) error         { return nil }
