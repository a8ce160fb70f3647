// Package sessionstore provides the TTL stores the session ledger runs on.
package sessionstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/config"
)

// Backend is a session store with a lifecycle.
type Backend interface {
	session.Store
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the backend selected by cfg.Store. For the redis backend the
// caller may pass a shared client; nil builds one from redisCfg.
func Open(cfg config.SessionConfig, redisCfg config.RedisConfig, client *redis.Client) (Backend, error) {
	switch cfg.Store {
	case config.StoreRedis, "":
		if client == nil {
			client = NewRedisClient(redisCfg)
		}
		return NewRedisStore(client), nil
	case config.StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
