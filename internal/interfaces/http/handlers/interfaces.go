package handlers

import (
	"context"

	accountUsecases "github.com/sortwise/sessiond/internal/application/account/usecases"
	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
	"github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
)

// Service interfaces for the handlers - enables unit testing with mocks.

// AccountService is what the auth routes need from the account side.
type AccountService interface {
	LoginWithPassword(ctx context.Context, cmd accountUsecases.PasswordLoginCommand) (*accountUsecases.PasswordLoginResult, error)
	Get(ctx context.Context, id session.AccountID) (*account.Account, error)
}

type ownSessionService interface {
	Logout(ctx context.Context, cmd sessionUsecases.LogoutCommand) error
	Describe(ctx context.Context, token string) (*session.Session, error)
}

type adminSessionService interface {
	ListOnline(ctx context.Context) ([]session.AccountID, error)
	CountOnline(ctx context.Context) (int, error)
	ForceLogout(ctx context.Context, cmd sessionUsecases.ForceLogoutCommand) (bool, error)
}

// SessionService is the session authority as the routes and the auth
// middleware use it.
type SessionService interface {
	ownSessionService
	adminSessionService
	AuthenticateRequest(ctx context.Context, token string) (session.AccountID, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
