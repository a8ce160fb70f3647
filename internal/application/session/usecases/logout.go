package usecases

import (
	"context"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/biztime"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

type LogoutCommand struct {
	Token     string
	AccountID session.AccountID
}

type LogoutUseCase struct {
	ledger *session.Ledger
	events session.EventPublisher
	logger logger.Interface
}

func NewLogoutUseCase(ledger *session.Ledger, events session.EventPublisher, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{
		ledger: ledger,
		events: events,
		logger: logger,
	}
}

// Execute ends the session named by cmd.Token. A newer session of the same
// account is left alone.
func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	if err := uc.ledger.Revoke(ctx, cmd.Token, cmd.AccountID); err != nil {
		uc.logger.Errorw("failed to revoke session", "account_id", cmd.AccountID, "error", err)
		return err
	}

	fp := session.Fingerprint(session.DigestToken(cmd.Token))
	publishEvent(ctx, uc.events, uc.logger, session.Event{
		Type:       session.EventLogout,
		AccountID:  cmd.AccountID,
		TokenFP:    fp,
		OccurredAt: biztime.NowUTC(),
	})

	uc.logger.Infow("account logged out", "account_id", cmd.AccountID, "token_fp", fp)
	return nil
}
