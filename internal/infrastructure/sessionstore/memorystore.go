package sessionstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/sortwise/sessiond/internal/domain/session"
)

// MemoryStore is a process-local store for single-node deployments and tests.
// Sessions do not survive a restart.
type MemoryStore struct {
	// mu serialises read-modify-write sequences; ttlcache guards single calls.
	mu    sync.Mutex
	cache *ttlcache.Cache[string, string]
}

var (
	_ session.Store                = (*MemoryStore)(nil)
	_ session.TTLReader            = (*MemoryStore)(nil)
	_ session.ConditionalDeleter   = (*MemoryStore)(nil)
	_ session.ConditionalRefresher = (*MemoryStore)(nil)
)

// NewMemoryStore starts the expiry loop; call Close to stop it.
func NewMemoryStore() *MemoryStore {
	cache := ttlcache.New[string, string](
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go cache.Start()

	return &MemoryStore{cache: cache}
}

func (s *MemoryStore) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return "", session.ErrKeyNotFound
	}
	return item.Value(), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) RefreshTTL(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return false, nil
	}
	s.cache.Set(key, item.Value(), ttl)
	return true, nil
}

func (s *MemoryStore) ListKeysByPrefix(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for key, item := range s.cache.Items() {
		if !item.IsExpired() && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return 0, session.ErrKeyNotFound
	}
	remaining := time.Until(item.ExpiresAt())
	if remaining <= 0 {
		return 0, session.ErrKeyNotFound
	}
	return remaining, nil
}

func (s *MemoryStore) DeleteIfValue(_ context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cache.Get(key)
	if item == nil || item.IsExpired() || item.Value() != value {
		return false, nil
	}
	s.cache.Delete(key)
	return true, nil
}

func (s *MemoryStore) RefreshTTLIfValue(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cache.Get(key)
	if item == nil || item.IsExpired() || item.Value() != value {
		return false, nil
	}
	s.cache.Set(key, value, ttl)
	return true, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	s.cache.Stop()
	return nil
}
