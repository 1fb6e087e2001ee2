// Package storage provides the durable key/value backends the client keeps
// its cache records and access token in.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"country-converter/internal/cache"
	"country-converter/internal/config"
)

// KV is a cache.Storage that holds resources.
type KV interface {
	cache.Storage
	io.Closer
}

var (
	_ KV = (*SQLite)(nil)
	_ KV = (*Memory)(nil)
	_ KV = (*Redis)(nil)
)

// Open builds the backend selected by cfg.Driver.
func Open(cfg config.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case config.StorageSQLite:
		return OpenSQLite(cfg.Path)
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageRedis:
		r := NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
