package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/cache"
	"github.com/acs560/marquee/internal/config"
	"github.com/acs560/marquee/internal/movie"
	"github.com/acs560/marquee/internal/store"
)

// storeOptions are the catalog and cache flags. Flags that were not set on
// the command line fall back to the config file and environment.
type storeOptions struct {
	backend        string
	csvPath        string
	databaseURL    string
	maxConnections int
	cacheBackend   string
	redisURL       string
	cacheSize      int
	cacheTTL       time.Duration
}

func (o *storeOptions) addFlags(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().StringVar(&o.backend, "store", def.Store.Backend, "catalog backend (memory, sql)")
	cmd.Flags().StringVar(&o.csvPath, "csv", def.Store.CSVPath, "catalog CSV to seed the memory backend")
	cmd.Flags().StringVar(&o.databaseURL, "database-url", "", "database URL for the sql backend (sqlite://path or postgres://...)")
	cmd.Flags().IntVar(&o.maxConnections, "db-max-connections", 0, "maximum open database connections (0 = driver default)")
	cmd.Flags().StringVar(&o.cacheBackend, "cache", def.Cache.Backend, "report cache backend (none, memory, redis)")
	cmd.Flags().StringVar(&o.redisURL, "redis-url", "", "redis URL for the redis cache backend")
	cmd.Flags().IntVar(&o.cacheSize, "cache-size", def.Cache.Size, "entries held by the memory cache")
	cmd.Flags().DurationVar(&o.cacheTTL, "cache-ttl", def.Cache.TTL, "report cache entry lifetime")
}

func (o *storeOptions) applyConfigIfUnset(cmd *cobra.Command, cfg config.Config) {
	if !cmd.Flags().Changed("store") {
		o.backend = cfg.Store.Backend
	}
	if !cmd.Flags().Changed("csv") {
		o.csvPath = cfg.Store.CSVPath
	}
	if !cmd.Flags().Changed("database-url") {
		o.databaseURL = cfg.Store.DatabaseURL
	}
	if !cmd.Flags().Changed("db-max-connections") {
		o.maxConnections = cfg.Store.MaxConnections
	}
	if !cmd.Flags().Changed("cache") {
		o.cacheBackend = cfg.Cache.Backend
	}
	if !cmd.Flags().Changed("redis-url") {
		o.redisURL = cfg.Cache.RedisURL
	}
	if !cmd.Flags().Changed("cache-size") {
		o.cacheSize = cfg.Cache.Size
	}
	if !cmd.Flags().Changed("cache-ttl") {
		o.cacheTTL = cfg.Cache.TTL
	}

	// A database URL given on the command line implies the sql backend.
	if cmd.Flags().Changed("database-url") && !cmd.Flags().Changed("store") {
		o.backend = store.BackendSQL
	}
	if cmd.Flags().Changed("redis-url") && !cmd.Flags().Changed("cache") {
		o.cacheBackend = cache.BackendRedis
	}
}

func (o *storeOptions) storeConfig() store.Config {
	return store.Config{
		Backend:        o.backend,
		CSVPath:        o.csvPath,
		DatabaseURL:    o.databaseURL,
		MaxConnections: o.maxConnections,
	}
}

func (o *storeOptions) cacheConfig() cache.Config {
	return cache.Config{
		Backend:  o.cacheBackend,
		RedisURL: o.redisURL,
		Size:     o.cacheSize,
		TTL:      o.cacheTTL,
	}
}

// openStore opens the catalog backend.
func (o *storeOptions) openStore(ctx context.Context, logger *slog.Logger) (movie.Store, error) {
	s, err := store.Open(ctx, o.storeConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return s, nil
}

// openCache opens the report cache. The returned close func is never nil.
func (o *storeOptions) openCache(ctx context.Context) (cache.Store, func(), error) {
	c, err := cache.Open(ctx, o.cacheConfig())
	if err != nil {
		return nil, func() {}, fmt.Errorf("opening report cache: %w", err)
	}
	closeFn := func() {}
	if cl, ok := c.(io.Closer); ok {
		closeFn = func() { _ = cl.Close() }
	}
	return c, closeFn, nil
}
