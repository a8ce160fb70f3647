package usecases

import (
	"context"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

type ListOnlineUseCase struct {
	presence *session.Presence
	logger   logger.Interface
}

func NewListOnlineUseCase(presence *session.Presence, logger logger.Interface) *ListOnlineUseCase {
	return &ListOnlineUseCase{
		presence: presence,
		logger:   logger,
	}
}

func (uc *ListOnlineUseCase) Execute(ctx context.Context) ([]session.AccountID, error) {
	ids, err := uc.presence.ActiveAccounts(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list online accounts", "error", err)
		return nil, err
	}
	return ids, nil
}

func (uc *ListOnlineUseCase) Count(ctx context.Context) (int, error) {
	n, err := uc.presence.Count(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count online accounts", "error", err)
		return 0, err
	}
	return n, nil
}
