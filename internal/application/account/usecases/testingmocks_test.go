package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
	domainAccount "github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) AccountExists(ctx context.Context, id session.AccountID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, a *domainAccount.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id session.AccountID) (*domainAccount.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainAccount.Account), args.Error(1)
}

func (m *mockRepository) GetByUsername(ctx context.Context, username string) (*domainAccount.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainAccount.Account), args.Error(1)
}

func (m *mockRepository) SetActive(ctx context.Context, id session.AccountID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id session.AccountID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Verify(password, hash string) error {
	args := m.Called(password, hash)
	return args.Error(0)
}

type mockDummyHasher struct {
	mockHasher
}

func (m *mockDummyHasher) VerifyDummy(password string) {
	m.Called(password)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Login(ctx context.Context, cmd sessionUsecases.LoginCommand) (*sessionUsecases.LoginResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionUsecases.LoginResult), args.Error(1)
}

func (m *mockSessions) ForceLogout(ctx context.Context, cmd sessionUsecases.ForceLogoutCommand) (bool, error) {
	args := m.Called(ctx, cmd)
	return args.Bool(0), args.Error(1)
}

func activeAccount(id session.AccountID, username string) *domainAccount.Account {
	return &domainAccount.Account{
		ID:           id,
		Username:     username,
		PasswordHash: "hash-of-" + username,
		Role:         domainAccount.RoleUser,
		Active:       true,
	}
}

type mockAttemptLimiter struct {
	mock.Mock
}

func (m *mockAttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockAttemptLimiter) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
