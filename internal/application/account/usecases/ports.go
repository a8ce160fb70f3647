package usecases

import (
	"context"

	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
)

// SessionIssuer issues sessions for accounts that passed a credential check.
type SessionIssuer interface {
	Login(ctx context.Context, cmd sessionUsecases.LoginCommand) (*sessionUsecases.LoginResult, error)
}

// SessionKicker ends whatever session an account currently has.
type SessionKicker interface {
	ForceLogout(ctx context.Context, cmd sessionUsecases.ForceLogoutCommand) (bool, error)
}

// dummyVerifier is implemented by hashers that can burn the cost of a
// verification without a real hash.
type dummyVerifier interface {
	VerifyDummy(password string)
}

// AttemptLimiter throttles login attempts per key.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
