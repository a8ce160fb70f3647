// Package ratelimit counts attempts per key in sliding windows.
package ratelimit

import (
	"context"
	"time"
)

// RateLimitConfig bounds attempts per window. A zero limit disables that
// window.
type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

// Enabled reports whether any window is limited.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerMinute > 0 || c.RequestsPerHour > 0 || c.RequestsPerDay > 0
}

type window struct {
	duration time.Duration
	limit    int
}

func (c RateLimitConfig) windows() []window {
	all := []window{
		{time.Minute, c.RequestsPerMinute},
		{time.Hour, c.RequestsPerHour},
		{24 * time.Hour, c.RequestsPerDay},
	}
	active := all[:0]
	for _, w := range all {
		if w.limit > 0 {
			active = append(active, w)
		}
	}
	return active
}

// RateLimiter records one attempt per Allow call, denied attempts included,
// so a client that keeps retrying stays blocked.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
