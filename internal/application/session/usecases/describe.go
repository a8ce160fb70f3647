package usecases

import (
	"context"

	"github.com/sortwise/sessiond/internal/domain/session"
)

type DescribeSessionUseCase struct {
	ledger *session.Ledger
}

func NewDescribeSessionUseCase(ledger *session.Ledger) *DescribeSessionUseCase {
	return &DescribeSessionUseCase{ledger: ledger}
}

// Execute returns the current session named by token without extending it.
func (uc *DescribeSessionUseCase) Execute(ctx context.Context, token string) (*session.Session, error) {
	return uc.ledger.Inspect(ctx, token)
}
