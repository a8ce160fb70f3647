package usecases

import (
	"context"

	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
	domainAccount "github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

type SetAccountActiveCommand struct {
	AccountID session.AccountID
	Active    bool
}

// SetAccountActiveUseCase enables or disables an account. Disabling also
// ends the account's current session.
type SetAccountActiveUseCase struct {
	accounts domainAccount.Repository
	sessions SessionKicker
	logger   logger.Interface
}

func NewSetAccountActiveUseCase(
	accounts domainAccount.Repository,
	sessions SessionKicker,
	logger logger.Interface,
) *SetAccountActiveUseCase {
	return &SetAccountActiveUseCase{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

func (uc *SetAccountActiveUseCase) Execute(ctx context.Context, cmd SetAccountActiveCommand) error {
	if err := uc.accounts.SetActive(ctx, cmd.AccountID, cmd.Active); err != nil {
		return err
	}

	uc.logger.Infow("account status changed", "account_id", cmd.AccountID, "active", cmd.Active)

	if cmd.Active {
		return nil
	}

	kicked, err := uc.sessions.ForceLogout(ctx, sessionUsecases.ForceLogoutCommand{TargetID: cmd.AccountID})
	if err != nil {
		uc.logger.Errorw("account disabled but session could not be ended", "account_id", cmd.AccountID, "error", err)
		return err
	}
	if kicked {
		uc.logger.Infow("ended session of disabled account", "account_id", cmd.AccountID)
	}
	return nil
}
