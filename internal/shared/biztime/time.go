// Package biztime centralises time handling. Storage and transport use UTC;
// a display timezone is applied only when rendering times for operators.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var (
	mu              sync.RWMutex
	displayLocation = time.UTC
)

// Init sets the display timezone. An empty tz means UTC.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	mu.Lock()
	defer mu.Unlock()
	displayLocation = loc
	return nil
}

// Location returns the display timezone.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return displayLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Format renders t in the display timezone as RFC3339. The zero time renders
// as an empty string.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location()).Format(time.RFC3339)
}

// Parse is the counterpart of Format; the result is in UTC.
func Parse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
