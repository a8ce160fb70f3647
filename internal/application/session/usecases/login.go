package usecases

import (
	"context"
	"time"

	"github.com/sortwise/sessiond/internal/domain/session"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

type LoginCommand struct {
	AccountID session.AccountID
	// Lifetime overrides the configured session lifetime when positive.
	Lifetime time.Duration
}

type LoginResult struct {
	Token   string
	Session *session.Session
}

type LoginUseCase struct {
	ledger   *session.Ledger
	accounts session.AccountChecker
	tokens   TokenGenerator
	events   session.EventPublisher
	lifetime time.Duration
	logger   logger.Interface
}

func NewLoginUseCase(
	ledger *session.Ledger,
	accounts session.AccountChecker,
	tokens TokenGenerator,
	events session.EventPublisher,
	lifetime time.Duration,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		ledger:   ledger,
		accounts: accounts,
		tokens:   tokens,
		events:   events,
		lifetime: lifetime,
		logger:   logger,
	}
}

// Execute issues a new session for the account. Any session the account
// already had stops authenticating.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if !cmd.AccountID.Valid() {
		return nil, apperrors.NewValidationError("account id must be positive", cmd.AccountID.String())
	}
	if cmd.Lifetime < 0 {
		return nil, apperrors.NewValidationError("session lifetime must not be negative", cmd.Lifetime.String())
	}
	lifetime := uc.lifetime
	if cmd.Lifetime > 0 {
		lifetime = cmd.Lifetime
	}

	exists, err := uc.accounts.AccountExists(ctx, cmd.AccountID)
	if err != nil {
		uc.logger.Errorw("failed to check account", "account_id", cmd.AccountID, "error", err)
		return nil, accountCheckFailed(err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("account not found", cmd.AccountID.String())
	}

	token, digest, err := uc.tokens.Generate()
	if err != nil {
		uc.logger.Errorw("failed to generate session token", "error", err)
		return nil, apperrors.NewInternalError("failed to generate session token")
	}

	s, err := uc.ledger.Issue(ctx, token, cmd.AccountID, lifetime)
	if err != nil {
		uc.logger.Errorw("failed to record session", "account_id", cmd.AccountID, "error", err)
		return nil, err
	}

	publishEvent(ctx, uc.events, uc.logger, session.Event{
		Type:       session.EventLogin,
		AccountID:  cmd.AccountID,
		TokenFP:    session.Fingerprint(digest),
		OccurredAt: s.IssuedAt,
	})

	uc.logger.Infow("session created",
		"account_id", cmd.AccountID,
		"token_fp", session.Fingerprint(digest),
		"lifetime", lifetime,
	)

	return &LoginResult{
		Token:   token,
		Session: s,
	}, nil
}
