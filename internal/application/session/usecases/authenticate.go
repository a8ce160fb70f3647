package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/biztime"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

type AuthenticateUseCase struct {
	ledger   *session.Ledger
	accounts session.AccountChecker
	events   session.EventPublisher
	lifetime time.Duration
	logger   logger.Interface
}

func NewAuthenticateUseCase(
	ledger *session.Ledger,
	accounts session.AccountChecker,
	events session.EventPublisher,
	lifetime time.Duration,
	logger logger.Interface,
) *AuthenticateUseCase {
	return &AuthenticateUseCase{
		ledger:   ledger,
		accounts: accounts,
		events:   events,
		lifetime: lifetime,
		logger:   logger,
	}
}

// Execute resolves token to its account and slides the session's expiry
// forward. Store faults are returned as is and never reported as
// unauthenticated.
func (uc *AuthenticateUseCase) Execute(ctx context.Context, token string) (session.AccountID, error) {
	accountID, err := uc.ledger.Authenticate(ctx, token)
	if err != nil {
		return 0, err
	}

	exists, err := uc.accounts.AccountExists(ctx, accountID)
	if err != nil {
		uc.logger.Errorw("failed to check account", "account_id", accountID, "error", err)
		return 0, accountCheckFailed(err)
	}
	if !exists {
		uc.revokeOrphan(ctx, token, accountID)
		return 0, session.ErrUnauthenticated
	}

	if err := uc.ledger.Extend(ctx, token, uc.lifetime); err != nil {
		// A concurrent login or logout between the check and the refresh.
		if errors.Is(err, session.ErrUnauthenticated) {
			uc.logger.Debugw("session ended while extending", "account_id", accountID, "error", err)
		}
		return 0, err
	}

	return accountID, nil
}

func (uc *AuthenticateUseCase) revokeOrphan(ctx context.Context, token string, accountID session.AccountID) {
	if err := uc.ledger.Revoke(ctx, token, accountID); err != nil {
		uc.logger.Warnw("failed to revoke session of missing account", "account_id", accountID, "error", err)
		return
	}

	uc.logger.Infow("revoked session of missing account", "account_id", accountID)
	publishEvent(ctx, uc.events, uc.logger, session.Event{
		Type:       session.EventRevoke,
		AccountID:  accountID,
		TokenFP:    session.Fingerprint(session.DigestToken(token)),
		OccurredAt: biztime.NowUTC(),
	})
}
