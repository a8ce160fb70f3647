package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/sortwise/sessiond/internal/shared/constants"
)

// AccountModel represents the database persistence model for accounts
type AccountModel struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"uniqueIndex;not null;size:50"`
	PasswordHash string `gorm:"not null;size:255"`
	Role         string `gorm:"not null;size:20"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (AccountModel) TableName() string {
	return constants.TableAccounts
}
