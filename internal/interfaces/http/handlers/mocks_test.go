package handlers

import (
	"context"

	accountUsecases "github.com/sortwise/sessiond/internal/application/account/usecases"
	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
	"github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
)

// =====================================================================
// Mock services
// =====================================================================

type mockAccountService struct {
	loginResult *accountUsecases.PasswordLoginResult
	loginErr    error
	lastLogin   accountUsecases.PasswordLoginCommand

	account *account.Account
	getErr  error
}

func (m *mockAccountService) LoginWithPassword(ctx context.Context, cmd accountUsecases.PasswordLoginCommand) (*accountUsecases.PasswordLoginResult, error) {
	m.lastLogin = cmd
	return m.loginResult, m.loginErr
}

func (m *mockAccountService) Get(ctx context.Context, id session.AccountID) (*account.Account, error) {
	return m.account, m.getErr
}

type mockSessionService struct {
	logoutErr  error
	lastLogout sessionUsecases.LogoutCommand

	described   *session.Session
	describeErr error

	online    []session.AccountID
	onlineErr error

	kicked   bool
	kickErr  error
	lastKick sessionUsecases.ForceLogoutCommand
}

func (m *mockSessionService) Logout(ctx context.Context, cmd sessionUsecases.LogoutCommand) error {
	m.lastLogout = cmd
	return m.logoutErr
}

func (m *mockSessionService) Describe(ctx context.Context, token string) (*session.Session, error) {
	return m.described, m.describeErr
}

func (m *mockSessionService) ListOnline(ctx context.Context) ([]session.AccountID, error) {
	return m.online, m.onlineErr
}

func (m *mockSessionService) CountOnline(ctx context.Context) (int, error) {
	return len(m.online), m.onlineErr
}

func (m *mockSessionService) ForceLogout(ctx context.Context, cmd sessionUsecases.ForceLogoutCommand) (bool, error) {
	m.lastKick = cmd
	return m.kicked, m.kickErr
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

func storeDown() error {
	return &session.StoreUnavailableError{Op: "get forward", Key: "sessiond:token:x", Err: context.DeadlineExceeded}
}
