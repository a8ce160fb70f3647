package session

import (
	"fmt"
	"strconv"
	"time"
)

// AccountID identifies an account holder.
type AccountID int64

func (id AccountID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Valid reports whether id can own a session.
func (id AccountID) Valid() bool {
	return id > 0
}

// ParseAccountID parses a positive decimal account id.
func ParseAccountID(s string) (AccountID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	id := AccountID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("invalid account id %q: must be positive", s)
	}
	return id, nil
}

// Session is the record of one issued login.
type Session struct {
	Token     string
	AccountID AccountID
	IssuedAt  time.Time
	// ExpiresAt moves forward every time the session is extended. It is zero
	// when the backing store cannot report remaining TTLs.
	ExpiresAt time.Time
}

func NewSession(token string, accountID AccountID, issuedAt time.Time, lifetime time.Duration) *Session {
	return &Session{
		Token:     token,
		AccountID: accountID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(lifetime),
	}
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Remaining is the lifetime left at now, never negative.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() || s.IsExpired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// Fingerprint is a short, non-secret handle for a token, safe for logs.
func (s *Session) Fingerprint() string {
	return Fingerprint(DigestToken(s.Token))
}
