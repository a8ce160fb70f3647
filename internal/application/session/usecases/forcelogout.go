package usecases

import (
	"context"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/biztime"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// ErrSelfKick is returned when an administrator targets their own account.
var ErrSelfKick = apperrors.NewValidationError("cannot force logout your own account")

type ForceLogoutCommand struct {
	ActorID  session.AccountID
	TargetID session.AccountID
}

type ForceLogoutUseCase struct {
	ledger *session.Ledger
	events session.EventPublisher
	logger logger.Interface
}

func NewForceLogoutUseCase(ledger *session.Ledger, events session.EventPublisher, logger logger.Interface) *ForceLogoutUseCase {
	return &ForceLogoutUseCase{
		ledger: ledger,
		events: events,
		logger: logger,
	}
}

// Execute revokes whatever session the target has and reports whether one
// existed.
func (uc *ForceLogoutUseCase) Execute(ctx context.Context, cmd ForceLogoutCommand) (bool, error) {
	if cmd.ActorID != 0 && cmd.ActorID == cmd.TargetID {
		return false, ErrSelfKick
	}

	kicked, err := uc.ledger.Kick(ctx, cmd.TargetID)
	if err != nil {
		uc.logger.Errorw("failed to force logout", "account_id", cmd.TargetID, "actor_id", cmd.ActorID, "error", err)
		return false, err
	}
	if !kicked {
		uc.logger.Debugw("force logout found no session", "account_id", cmd.TargetID)
		return false, nil
	}

	publishEvent(ctx, uc.events, uc.logger, session.Event{
		Type:       session.EventKick,
		AccountID:  cmd.TargetID,
		ActorID:    cmd.ActorID,
		OccurredAt: biztime.NowUTC(),
	})

	uc.logger.Infow("account forcibly logged out", "account_id", cmd.TargetID, "actor_id", cmd.ActorID)
	return true, nil
}
