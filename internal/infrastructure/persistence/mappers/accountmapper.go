package mappers

import (
	"github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/infrastructure/persistence/models"
)

// AccountMapper handles the conversion between account entities and
// persistence models.
type AccountMapper interface {
	ToModel(entity *account.Account) *models.AccountModel
	ToEntity(model *models.AccountModel) *account.Account
}

type AccountMapperImpl struct{}

func NewAccountMapper() AccountMapper {
	return &AccountMapperImpl{}
}

func (m *AccountMapperImpl) ToModel(entity *account.Account) *models.AccountModel {
	if entity == nil {
		return nil
	}
	return &models.AccountModel{
		ID:           uint(entity.ID),
		Username:     entity.Username,
		PasswordHash: entity.PasswordHash,
		Role:         string(entity.Role),
		IsActive:     entity.Active,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (m *AccountMapperImpl) ToEntity(model *models.AccountModel) *account.Account {
	if model == nil {
		return nil
	}
	return &account.Account{
		ID:           session.AccountID(model.ID),
		Username:     model.Username,
		PasswordHash: model.PasswordHash,
		Role:         account.Role(model.Role),
		Active:       model.IsActive,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
