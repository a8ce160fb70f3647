package usecases

import (
	"context"
	"fmt"
	"strings"

	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
	domainAccount "github.com/sortwise/sessiond/internal/domain/account"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

type PasswordLoginCommand struct {
	Username string
	Password string
}

type PasswordLoginResult struct {
	Account *domainAccount.Account
	*sessionUsecases.LoginResult
}

type PasswordLoginUseCase struct {
	accounts domainAccount.Repository
	hasher   domainAccount.PasswordHasher
	sessions SessionIssuer
	attempts AttemptLimiter
	logger   logger.Interface
}

func NewPasswordLoginUseCase(
	accounts domainAccount.Repository,
	hasher domainAccount.PasswordHasher,
	sessions SessionIssuer,
	logger logger.Interface,
) *PasswordLoginUseCase {
	return &PasswordLoginUseCase{
		accounts: accounts,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger,
	}
}

// SetAttemptLimiter enables per-username throttling. A nil limiter disables it.
func (uc *PasswordLoginUseCase) SetAttemptLimiter(l AttemptLimiter) {
	uc.attempts = l
}

// Execute checks credentials and issues a session. Unknown usernames and
// wrong passwords fail identically.
func (uc *PasswordLoginUseCase) Execute(ctx context.Context, cmd PasswordLoginCommand) (*PasswordLoginResult, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return nil, apperrors.NewValidationError("username and password are required")
	}

	throttleKey := "login:" + strings.ToLower(cmd.Username)
	if err := uc.checkAttempts(ctx, throttleKey); err != nil {
		return nil, err
	}

	acc, err := uc.accounts.GetByUsername(ctx, cmd.Username)
	if err != nil {
		uc.logger.Errorw("failed to get account by username", "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if acc == nil {
		if dv, ok := uc.hasher.(dummyVerifier); ok {
			dv.VerifyDummy(cmd.Password)
		}
		uc.logger.Debugw("login for unknown username", "username", cmd.Username)
		return nil, apperrors.NewInvalidCredentialsError()
	}

	if err := uc.hasher.Verify(cmd.Password, acc.PasswordHash); err != nil {
		uc.logger.Warnw("password verification failed", "account_id", acc.ID)
		return nil, apperrors.NewInvalidCredentialsError()
	}

	// Checked after the password so a disabled account is not disclosed to
	// someone who does not know its password.
	if err := acc.CanLogin(); err != nil {
		uc.logger.Infow("login refused for inactive account", "account_id", acc.ID)
		return nil, apperrors.NewAccountInactiveError()
	}

	result, err := uc.sessions.Login(ctx, sessionUsecases.LoginCommand{AccountID: acc.ID})
	if err != nil {
		return nil, err
	}

	if uc.attempts != nil {
		if err := uc.attempts.Reset(ctx, throttleKey); err != nil {
			uc.logger.Warnw("failed to reset login attempts", "account_id", acc.ID, "error", err)
		}
	}

	return &PasswordLoginResult{Account: acc, LoginResult: result}, nil
}

// checkAttempts fails open when the limiter itself errors.
func (uc *PasswordLoginUseCase) checkAttempts(ctx context.Context, key string) error {
	if uc.attempts == nil {
		return nil
	}
	allowed, err := uc.attempts.Allow(ctx, key)
	if err != nil {
		uc.logger.Warnw("login attempt limiter unavailable", "error", err)
		return nil
	}
	if !allowed {
		uc.logger.Warnw("login attempts throttled", "key", key)
		return apperrors.NewRateLimitedError("too many login attempts, try again later")
	}
	return nil
}
