package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryRateLimiter is the process-local counterpart of RedisRateLimiter.
// Idle keys are evicted once their longest window has passed.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	config  RateLimitConfig
	longest time.Duration
	cache   *ttlcache.Cache[string, []time.Time]
	now     func() time.Time
}

var _ RateLimiter = (*MemoryRateLimiter)(nil)

// NewMemoryRateLimiter starts the eviction loop; call Close to stop it.
func NewMemoryRateLimiter(config RateLimitConfig) *MemoryRateLimiter {
	var longest time.Duration
	for _, w := range config.windows() {
		longest = max(longest, w.duration)
	}

	cache := ttlcache.New[string, []time.Time]()
	go cache.Start()

	return &MemoryRateLimiter{
		config:  config,
		longest: longest,
		cache:   cache,
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	if !l.config.Enabled() {
		return true, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	var attempts []time.Time
	if item := l.cache.Get(key); item != nil {
		attempts = item.Value()
	}

	// Drop attempts outside the longest window.
	kept := attempts[:0]
	for _, at := range attempts {
		if now.Sub(at) < l.longest {
			kept = append(kept, at)
		}
	}

	allowed := true
	for _, w := range l.config.windows() {
		n := 0
		for _, at := range kept {
			if now.Sub(at) < w.duration {
				n++
			}
		}
		if n >= w.limit {
			allowed = false
		}
	}

	kept = append(kept, now)
	l.cache.Set(key, kept, l.longest)
	return allowed, nil
}

func (l *MemoryRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Delete(key)
	return nil
}

func (l *MemoryRateLimiter) Close() {
	l.cache.Stop()
}
