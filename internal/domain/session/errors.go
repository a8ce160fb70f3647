package session

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is the normal negative answer: the token does not
	// name a live session. It is definitive and must not be retried.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionSuperseded means the token was valid once but the account has
	// since logged in again elsewhere. It matches ErrUnauthenticated.
	ErrSessionSuperseded = fmt.Errorf("%w: session superseded by a newer login", ErrUnauthenticated)

	// ErrStoreUnavailable marks infrastructure faults of the session store.
	// It is never a statement about the token; callers retry or degrade.
	ErrStoreUnavailable = errors.New("session store unavailable")

	// ErrKeyNotFound is returned by Store.Get and TTLReader.TTL for an absent
	// or expired key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrMalformedRecord is returned by the codec for values it cannot decode.
	ErrMalformedRecord = errors.New("malformed session record")
)

// StoreUnavailableError carries which store operation failed.
type StoreUnavailableError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("session store unavailable: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreUnavailableError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

// IsUnauthenticated reports whether err is a logical authentication failure.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsStoreUnavailable reports whether err is a transient store fault.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func unavailable(op, key string, err error) error {
	return &StoreUnavailableError{Op: op, Key: key, Err: err}
}
