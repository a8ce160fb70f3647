package session

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeEntry struct {
	value     string
	expiresAt time.Time
}

// fakeStore is a TTL store driven by a manual clock, with per-operation fault
// injection.
type fakeStore struct {
	mu      sync.Mutex
	clock   *manualClock
	entries map[string]fakeEntry
	fail    func(op, key string) error
	calls   []string
}

func newFakeStore(clock *manualClock) *fakeStore {
	return &fakeStore{clock: clock, entries: make(map[string]fakeEntry)}
}

func (s *fakeStore) failWith(fn func(op, key string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fn
}

func (s *fakeStore) check(op, key string) error {
	s.calls = append(s.calls, op+" "+key)
	if s.fail != nil {
		return s.fail(op, key)
	}
	return nil
}

func (s *fakeStore) live(key string) (fakeEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return fakeEntry{}, false
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(s.entries, key)
		return fakeEntry{}, false
	}
	return e, true
}

func (s *fakeStore) expiresAt(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	return e.expiresAt, ok
}

func (s *fakeStore) rawSet(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = fakeEntry{value: value, expiresAt: s.clock.Now().Add(ttl)}
}

func (s *fakeStore) rawDelete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *fakeStore) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("set", key); err != nil {
		return err
	}
	s.entries[key] = fakeEntry{value: value, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}

func (s *fakeStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("get", key); err != nil {
		return "", err
	}
	e, ok := s.live(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return e.value, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("delete", key); err != nil {
		return err
	}
	delete(s.entries, key)
	return nil
}

func (s *fakeStore) RefreshTTL(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("refresh", key); err != nil {
		return false, err
	}
	e, ok := s.live(key)
	if !ok {
		return false, nil
	}
	e.expiresAt = s.clock.Now().Add(ttl)
	s.entries[key] = e
	return true, nil
}

func (s *fakeStore) ListKeysByPrefix(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("list", prefix); err != nil {
		return nil, err
	}
	var keys []string
	for k := range s.entries {
		if _, ok := s.live(k); ok && strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *fakeStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("ttl", key); err != nil {
		return 0, err
	}
	e, ok := s.live(key)
	if !ok {
		return 0, ErrKeyNotFound
	}
	return e.expiresAt.Sub(s.clock.Now()), nil
}

func (s *fakeStore) DeleteIfValue(_ context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("cad", key); err != nil {
		return false, err
	}
	e, ok := s.live(key)
	if !ok || e.value != value {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

func (s *fakeStore) RefreshTTLIfValue(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("refresh", key); err != nil {
		return false, err
	}
	e, ok := s.live(key)
	if !ok || e.value != value {
		return false, nil
	}
	e.expiresAt = s.clock.Now().Add(ttl)
	s.entries[key] = e
	return true, nil
}

// setLocked writes an entry from inside a fail hook, which runs with mu held.
func (s *fakeStore) setLocked(key, value string, ttl time.Duration) {
	s.entries[key] = fakeEntry{value: value, expiresAt: s.clock.Now().Add(ttl)}
}

func (s *fakeStore) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

// basicStore hides the optional capabilities of the wrapped store.
type basicStore struct {
	Store
}
