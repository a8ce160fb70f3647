// Package account holds the credential side of login: password checks,
// account creation and enabling or disabling accounts.
package account

import (
	"context"

	"github.com/sortwise/sessiond/internal/application/account/usecases"
	domainAccount "github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

type Service struct {
	passwordLoginUC *usecases.PasswordLoginUseCase
	createUC        *usecases.CreateAccountUseCase
	setActiveUC     *usecases.SetAccountActiveUseCase
	accounts        domainAccount.Repository
}

// SessionAuthority is the part of the session service accounts depend on.
type SessionAuthority interface {
	usecases.SessionIssuer
	usecases.SessionKicker
}

type Option func(*Service)

// WithLoginLimiter throttles password logins per username.
func WithLoginLimiter(l usecases.AttemptLimiter) Option {
	return func(s *Service) {
		s.passwordLoginUC.SetAttemptLimiter(l)
	}
}

func NewService(
	accounts domainAccount.Repository,
	hasher domainAccount.PasswordHasher,
	sessions SessionAuthority,
	logger logger.Interface,
	opts ...Option,
) *Service {
	s := &Service{
		passwordLoginUC: usecases.NewPasswordLoginUseCase(accounts, hasher, sessions, logger),
		createUC:        usecases.NewCreateAccountUseCase(accounts, hasher, logger),
		setActiveUC:     usecases.NewSetAccountActiveUseCase(accounts, sessions, logger),
		accounts:        accounts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) LoginWithPassword(ctx context.Context, cmd usecases.PasswordLoginCommand) (*usecases.PasswordLoginResult, error) {
	return s.passwordLoginUC.Execute(ctx, cmd)
}

func (s *Service) Create(ctx context.Context, cmd usecases.CreateAccountCommand) (*domainAccount.Account, error) {
	return s.createUC.Execute(ctx, cmd)
}

func (s *Service) SetActive(ctx context.Context, cmd usecases.SetAccountActiveCommand) error {
	return s.setActiveUC.Execute(ctx, cmd)
}

// Get returns nil, nil for an unknown id.
func (s *Service) Get(ctx context.Context, id session.AccountID) (*domainAccount.Account, error) {
	return s.accounts.GetByID(ctx, id)
}
