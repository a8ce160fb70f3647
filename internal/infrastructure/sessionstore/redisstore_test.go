package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrKeyNotFound)

	require.NoError(t, s.SetWithTTL(ctx, "k", "v", time.Minute))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrKeyNotFound)
}

func TestRedisStore_RefreshAndTTL(t *testing.T) {
	client := setupTestRedis(t)
	s := NewRedisStore(client)
	ctx := context.Background()

	ok, err := s.RefreshTTL(ctx, "missing", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetWithTTL(ctx, "k", "v", time.Second))
	ok, err = s.RefreshTTL(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := s.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	_, err = s.TTL(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrKeyNotFound)

	require.NoError(t, client.Set(ctx, "persistent", "v", 0).Err())
	ttl, err = s.TTL(ctx, "persistent")
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestRedisStore_ListKeysByPrefix(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	for _, k := range []string{"t*:account:1", "t*:account:2", "tx:account:3", "t*:token:x"} {
		require.NoError(t, s.SetWithTTL(ctx, k, "v", time.Minute))
	}

	keys, err := s.ListKeysByPrefix(ctx, "t*:account:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t*:account:1", "t*:account:2"}, keys)
}

func TestRedisStore_RefreshTTLIfValue(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, s.SetWithTTL(ctx, "k", "mine", time.Minute))

	refreshed, err := s.RefreshTTLIfValue(ctx, "k", "theirs", time.Hour)
	require.NoError(t, err)
	assert.False(t, refreshed)
	ttl, err := s.TTL(ctx, "k")
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	refreshed, err = s.RefreshTTLIfValue(ctx, "k", "mine", time.Hour)
	require.NoError(t, err)
	assert.True(t, refreshed)
	ttl, err = s.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Minute)

	refreshed, err = s.RefreshTTLIfValue(ctx, "missing", "mine", time.Hour)
	require.NoError(t, err)
	assert.False(t, refreshed)
}

func TestRedisStore_DeleteIfValue(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, s.SetWithTTL(ctx, "k", "mine", time.Minute))

	deleted, err := s.DeleteIfValue(ctx, "k", "theirs")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.DeleteIfValue(ctx, "k", "mine")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestRedisStore_LedgerSupersede(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	l := session.NewLedger(s, session.NewCodec("test:"), logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "st_one", 7, time.Minute))
	require.NoError(t, l.Put(ctx, "st_two", 7, time.Minute))

	_, err := l.Authenticate(ctx, "st_one")
	assert.ErrorIs(t, err, session.ErrSessionSuperseded)

	s2, err := l.Inspect(ctx, "st_two")
	require.NoError(t, err)
	assert.Equal(t, session.AccountID(7), s2.AccountID)
	assert.False(t, s2.ExpiresAt.IsZero())

	require.NoError(t, l.Revoke(ctx, "st_one", 7))
	_, err = l.Authenticate(ctx, "st_two")
	assert.NoError(t, err)
}

func TestRedisStore_UnreachableIsStoreUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	l := session.NewLedger(NewRedisStore(client), session.NewCodec(""), logger.NewNopLogger())

	_, err := l.Authenticate(context.Background(), "st_any")
	assert.True(t, session.IsStoreUnavailable(err))
	assert.False(t, session.IsUnauthenticated(err))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `sessiond:account:`, escapeGlob("sessiond:account:"))
	assert.Equal(t, `a\*b\?c\[d\]\\`, escapeGlob(`a*b?c[d]\`))
}
