package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/infrastructure/persistence/mappers"
	"github.com/sortwise/sessiond/internal/infrastructure/persistence/models"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// AccountRepository implements account.Repository with gorm.
type AccountRepository struct {
	db     *gorm.DB
	mapper mappers.AccountMapper
	logger logger.Interface
}

func NewAccountRepository(db *gorm.DB, logger logger.Interface) *AccountRepository {
	return &AccountRepository{
		db:     db,
		mapper: mappers.NewAccountMapper(),
		logger: logger,
	}
}

var _ account.Repository = (*AccountRepository)(nil)

// Create inserts a new account and sets its ID.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	existing, err := r.GetByUsername(ctx, a.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.NewConflictError("username already taken", a.Username)
	}

	model := r.mapper.ToModel(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("username already taken", a.Username)
		}
		r.logger.Errorw("failed to create account", "username", a.Username, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	a.ID = session.AccountID(model.ID)
	a.CreatedAt = model.CreatedAt
	a.UpdatedAt = model.UpdatedAt

	r.logger.Infow("account created", "account_id", a.ID, "username", a.Username, "role", a.Role)
	return nil
}

// GetByID returns nil, nil when no account has id.
func (r *AccountRepository) GetByID(ctx context.Context, id session.AccountID) (*account.Account, error) {
	var model models.AccountModel

	if err := r.db.WithContext(ctx).First(&model, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get account by id", "account_id", id, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// GetByUsername returns nil, nil when no account has username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	var model models.AccountModel

	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get account by username", "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// AccountExists reports whether id names an account that has not been
// deleted. Disabled accounts still exist.
func (r *AccountRepository) AccountExists(ctx context.Context, id session.AccountID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).Where("id = ?", uint(id)).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return count > 0, nil
}

func (r *AccountRepository) SetActive(ctx context.Context, id session.AccountID, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.AccountModel{}).Where("id = ?", uint(id)).Update("is_active", active)
	if result.Error != nil {
		r.logger.Errorw("failed to update account status", "account_id", id, "error", result.Error)
		return fmt.Errorf("failed to update account status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("account not found", id.String())
	}

	r.logger.Infow("account status updated", "account_id", id, "active", active)
	return nil
}

// Delete soft-deletes the account.
func (r *AccountRepository) Delete(ctx context.Context, id session.AccountID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountModel{}, uint(id))
	if result.Error != nil {
		r.logger.Errorw("failed to delete account", "account_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("account not found", id.String())
	}

	r.logger.Infow("account deleted", "account_id", id)
	return nil
}
