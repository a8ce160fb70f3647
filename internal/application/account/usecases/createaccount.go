package usecases

import (
	"context"
	"fmt"

	domainAccount "github.com/sortwise/sessiond/internal/domain/account"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
	"github.com/sortwise/sessiond/internal/shared/utils"
)

type CreateAccountCommand struct {
	Username string             `json:"username" validate:"required,min=3,max=50"`
	Password string             `json:"password" validate:"required,min=8,max=72"`
	Role     domainAccount.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

type CreateAccountUseCase struct {
	accounts domainAccount.Repository
	hasher   domainAccount.PasswordHasher
	logger   logger.Interface
}

func NewCreateAccountUseCase(
	accounts domainAccount.Repository,
	hasher domainAccount.PasswordHasher,
	logger logger.Interface,
) *CreateAccountUseCase {
	return &CreateAccountUseCase{
		accounts: accounts,
		hasher:   hasher,
		logger:   logger,
	}
}

func (uc *CreateAccountUseCase) Execute(ctx context.Context, cmd CreateAccountCommand) (*domainAccount.Account, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	existing, err := uc.accounts.GetByUsername(ctx, cmd.Username)
	if err != nil {
		uc.logger.Errorw("failed to check existing account", "username", cmd.Username, "error", err)
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("username already taken", cmd.Username)
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, apperrors.NewInternalError("failed to hash password")
	}

	acc, err := domainAccount.NewAccount(cmd.Username, hash, cmd.Role)
	if err != nil {
		return nil, err
	}

	if err := uc.accounts.Create(ctx, acc); err != nil {
		uc.logger.Errorw("failed to create account", "username", cmd.Username, "error", err)
		return nil, err
	}

	return acc, nil
}
