package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/infrastructure/sessionstore"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

type mockAccountChecker struct {
	mock.Mock
}

func (m *mockAccountChecker) AccountExists(ctx context.Context, id session.AccountID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockTokenGenerator struct {
	mock.Mock
}

func (m *mockTokenGenerator) Generate() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event session.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newTestLedger(t *testing.T) *session.Ledger {
	t.Helper()
	store := sessionstore.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return session.NewLedger(store, session.NewCodec(""), logger.NewNopLogger())
}

func eventOfType(eventType session.EventType, id session.AccountID) any {
	return mock.MatchedBy(func(e session.Event) bool {
		return e.Type == eventType && e.AccountID == id
	})
}
