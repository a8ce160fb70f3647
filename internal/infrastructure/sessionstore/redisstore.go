package sessionstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/config"
)

const scanBatchSize = 100

// deleteIfValueScript deletes KEYS[1] only while it holds ARGV[1].
// Returns 1 if deleted, 0 otherwise.
var deleteIfValueScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// refreshIfValueScript resets the TTL of KEYS[1] to ARGV[2] milliseconds only
// while it holds ARGV[1]. Returns 1 if refreshed, 0 otherwise.
var refreshIfValueScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0
`)

// RedisStore keeps sessions in Redis and relies on key expiry for passive
// logout.
type RedisStore struct {
	client *redis.Client
}

var (
	_ session.Store                = (*RedisStore)(nil)
	_ session.TTLReader            = (*RedisStore)(nil)
	_ session.ConditionalDeleter   = (*RedisStore)(nil)
	_ session.ConditionalRefresher = (*RedisStore)(nil)
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient builds a client from config. It does not dial.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

func (s *RedisStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", session.ErrKeyNotFound
	}
	return v, err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *RedisStore) RefreshTTL(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.PExpire(ctx, key, ttl).Result()
}

func (s *RedisStore) ListKeysByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// PTTL replies -2 for a missing key and -1 for a key without expiry.
	switch ttl {
	case -2:
		return 0, session.ErrKeyNotFound
	case -1:
		return 0, nil
	}
	return ttl, nil
}

func (s *RedisStore) DeleteIfValue(ctx context.Context, key, value string) (bool, error) {
	n, err := deleteIfValueScript.Run(ctx, s.client, []string{key}, value).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) RefreshTTLIfValue(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	n, err := refreshIfValueScript.Run(ctx, s.client, []string{key}, value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
