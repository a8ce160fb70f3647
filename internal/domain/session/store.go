package session

import (
	"context"
	"time"
)

// Store is the TTL key-value store sessions live in. It expires keys on its
// own and offers no multi-key atomicity. Implementations must be safe for
// concurrent use.
type Store interface {
	// SetWithTTL writes value under key, replacing any previous value and TTL.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ErrKeyNotFound for absent or expired keys.
	Get(ctx context.Context, key string) (string, error)
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
	// RefreshTTL resets the TTL of an existing key and reports whether the key
	// existed.
	RefreshTTL(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// ListKeysByPrefix returns every live key starting with prefix.
	ListKeysByPrefix(ctx context.Context, prefix string) ([]string, error)
}

// TTLReader is implemented by stores that can report a key's remaining TTL.
// TTL returns ErrKeyNotFound for absent keys and zero for keys without expiry.
type TTLReader interface {
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// ConditionalDeleter is implemented by stores that can delete a key only if
// it still holds value, atomically.
type ConditionalDeleter interface {
	DeleteIfValue(ctx context.Context, key, value string) (bool, error)
}

// ConditionalRefresher is implemented by stores that can reset a key's TTL
// only if it still holds value, atomically.
type ConditionalRefresher interface {
	RefreshTTLIfValue(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

// AccountChecker is the authority's only outbound dependency besides the
// store.
type AccountChecker interface {
	AccountExists(ctx context.Context, id AccountID) (bool, error)
}
