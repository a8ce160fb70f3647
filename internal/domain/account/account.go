// Package account holds the account holders sessions are issued to. Only what
// login and authorization need is modelled here.
package account

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/sortwise/sessiond/internal/domain/session"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

type Account struct {
	ID           session.AccountID
	Username     string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount validates a new, active account. The password must already be
// hashed.
func NewAccount(username, passwordHash string, role Role) (*Account, error) {
	if !usernamePattern.MatchString(username) {
		return nil, apperrors.NewValidationError("username must be 3-50 letters, digits, '_', '.' or '-'", username)
	}
	if passwordHash == "" {
		return nil, apperrors.NewValidationError("password hash is required")
	}
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", string(role))
	}

	return &Account{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
	}, nil
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanLogin rejects disabled accounts.
func (a *Account) CanLogin() error {
	if !a.Active {
		return fmt.Errorf("account %s is disabled", a.ID)
	}
	return nil
}

// Repository persists accounts. Getters return (nil, nil) when nothing
// matches.
type Repository interface {
	session.AccountChecker

	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id session.AccountID) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	SetActive(ctx context.Context, id session.AccountID, active bool) error
	Delete(ctx context.Context, id session.AccountID) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
