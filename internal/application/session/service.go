// Package session is the session authority: it issues, authenticates and
// revokes sessions on top of the ledger.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/sortwise/sessiond/internal/application/session/usecases"
	domainSession "github.com/sortwise/sessiond/internal/domain/session"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// Recorder receives per-operation outcomes.
type Recorder interface {
	ObserveOperation(operation, outcome string, d time.Duration)
	SetOnline(n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, time.Duration) {}
func (nopRecorder) SetOnline(int)                                  {}

// Service orchestrates the session use cases.
type Service struct {
	loginUC        *usecases.LoginUseCase
	authenticateUC *usecases.AuthenticateUseCase
	logoutUC       *usecases.LogoutUseCase
	forceLogoutUC  *usecases.ForceLogoutUseCase
	listOnlineUC   *usecases.ListOnlineUseCase
	describeUC     *usecases.DescribeSessionUseCase
	lifetime       time.Duration
	recorder       Recorder
	logger         logger.Interface
}

// NewService wires the use cases. events and recorder may be nil.
func NewService(
	ledger *domainSession.Ledger,
	accounts domainSession.AccountChecker,
	tokens usecases.TokenGenerator,
	events domainSession.EventPublisher,
	recorder Recorder,
	lifetime time.Duration,
	logger logger.Interface,
) *Service {
	if events == nil {
		events = domainSession.NopPublisher()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	presence := domainSession.NewPresence(ledger)

	return &Service{
		loginUC:        usecases.NewLoginUseCase(ledger, accounts, tokens, events, lifetime, logger),
		authenticateUC: usecases.NewAuthenticateUseCase(ledger, accounts, events, lifetime, logger),
		logoutUC:       usecases.NewLogoutUseCase(ledger, events, logger),
		forceLogoutUC:  usecases.NewForceLogoutUseCase(ledger, events, logger),
		listOnlineUC:   usecases.NewListOnlineUseCase(presence, logger),
		describeUC:     usecases.NewDescribeSessionUseCase(ledger),
		lifetime:       lifetime,
		recorder:       recorder,
		logger:         logger,
	}
}

// Lifetime is the configured sliding session lifetime.
func (s *Service) Lifetime() time.Duration {
	return s.lifetime
}

// Login issues a session for an existing account, superseding any previous one.
func (s *Service) Login(ctx context.Context, cmd usecases.LoginCommand) (result *usecases.LoginResult, err error) {
	defer s.observe("login", time.Now(), &err)
	return s.loginUC.Execute(ctx, cmd)
}

// AuthenticateRequest is called once per inbound request. On success the
// session's lifetime starts over.
func (s *Service) AuthenticateRequest(ctx context.Context, token string) (id domainSession.AccountID, err error) {
	defer s.observe("authenticate", time.Now(), &err)
	return s.authenticateUC.Execute(ctx, token)
}

// Logout revokes the caller's own session.
func (s *Service) Logout(ctx context.Context, cmd usecases.LogoutCommand) (err error) {
	defer s.observe("logout", time.Now(), &err)
	return s.logoutUC.Execute(ctx, cmd)
}

// ForceLogout revokes another account's session.
func (s *Service) ForceLogout(ctx context.Context, cmd usecases.ForceLogoutCommand) (kicked bool, err error) {
	defer s.observe("force_logout", time.Now(), &err)
	return s.forceLogoutUC.Execute(ctx, cmd)
}

// ListOnline returns accounts that currently hold a session, ascending.
func (s *Service) ListOnline(ctx context.Context) (ids []domainSession.AccountID, err error) {
	defer s.observe("list_online", time.Now(), &err)
	ids, err = s.listOnlineUC.Execute(ctx)
	if err == nil {
		s.recorder.SetOnline(len(ids))
	}
	return ids, err
}

func (s *Service) CountOnline(ctx context.Context) (n int, err error) {
	defer s.observe("count_online", time.Now(), &err)
	n, err = s.listOnlineUC.Count(ctx)
	if err == nil {
		s.recorder.SetOnline(n)
	}
	return n, err
}

// Describe returns the session named by token without extending it.
func (s *Service) Describe(ctx context.Context, token string) (sess *domainSession.Session, err error) {
	defer s.observe("describe", time.Now(), &err)
	return s.describeUC.Execute(ctx, token)
}

func (s *Service) observe(operation string, start time.Time, err *error) {
	s.recorder.ObserveOperation(operation, Outcome(*err), time.Since(start))
}

// Outcome classifies err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domainSession.IsStoreUnavailable(err):
		return "unavailable"
	case errors.Is(err, domainSession.ErrSessionSuperseded):
		return "superseded"
	case domainSession.IsUnauthenticated(err):
		return "unauthenticated"
	case apperrors.IsValidationError(err):
		return "invalid"
	case apperrors.IsNotFoundError(err):
		return "not_found"
	default:
		return "error"
	}
}
