package store

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/pipeline"
	"github.com/theirongolddev/cfohelper/internal/source"
)

// Backend is a baseline cache that holds a connection or file handle.
type Backend interface {
	Lookup(id source.Identity) (*source.Record, bool, error)
	Save(rec *source.Record) error
	Delete(path string) error
	Count() (int, error)
	Close() error
}

// OpenBackend opens the cache selected by cfg. It returns a nil Backend and
// no error when caching is disabled.
func OpenBackend(ctx context.Context, cfg config.CacheConfig) (Backend, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return nil, nil
	case config.CacheRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("cache backend redis: no redis_addr configured")
		}
		return NewRedisCache(ctx, cfg.RedisAddr, time.Duration(cfg.RedisTTL)*time.Second)
	case "", config.CacheSQLite:
		return Open(pipeline.CachePath())
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

var (
	_ Backend = (*Cache)(nil)
	_ Backend = (*RedisCache)(nil)

	_ pipeline.BaselineCache = (*Cache)(nil)
	_ pipeline.BaselineCache = (*RedisCache)(nil)
)
