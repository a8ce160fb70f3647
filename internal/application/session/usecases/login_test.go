package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sortwise/sessiond/internal/domain/session"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

func TestLoginUseCase_Execute_Success(t *testing.T) {
	ledger := newTestLedger(t)
	accounts := new(mockAccountChecker)
	tokens := new(mockTokenGenerator)
	events := new(mockPublisher)

	accounts.On("AccountExists", mock.Anything, session.AccountID(5)).Return(true, nil)
	tokens.On("Generate").Return("st_first", session.DigestToken("st_first"), nil)
	events.On("Publish", mock.Anything, eventOfType(session.EventLogin, 5)).Return(nil)

	uc := NewLoginUseCase(ledger, accounts, tokens, events, time.Hour, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), LoginCommand{AccountID: 5})
	require.NoError(t, err)
	assert.Equal(t, "st_first", result.Token)
	assert.Equal(t, session.AccountID(5), result.Session.AccountID)
	assert.Equal(t, time.Hour, result.Session.ExpiresAt.Sub(result.Session.IssuedAt))

	id, err := ledger.Authenticate(context.Background(), "st_first")
	require.NoError(t, err)
	assert.Equal(t, session.AccountID(5), id)

	accounts.AssertExpectations(t)
	tokens.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestLoginUseCase_Execute_LifetimeOverride(t *testing.T) {
	ledger := newTestLedger(t)
	accounts := new(mockAccountChecker)
	tokens := new(mockTokenGenerator)
	events := new(mockPublisher)

	accounts.On("AccountExists", mock.Anything, session.AccountID(5)).Return(true, nil)
	tokens.On("Generate").Return("st_short", session.DigestToken("st_short"), nil)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := NewLoginUseCase(ledger, accounts, tokens, events, time.Hour, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), LoginCommand{AccountID: 5, Lifetime: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, result.Session.ExpiresAt.Sub(result.Session.IssuedAt))
}

func TestLoginUseCase_Execute_SupersedesPreviousSession(t *testing.T) {
	ledger := newTestLedger(t)
	accounts := new(mockAccountChecker)
	tokens := new(mockTokenGenerator)
	events := new(mockPublisher)

	accounts.On("AccountExists", mock.Anything, session.AccountID(9)).Return(true, nil)
	tokens.On("Generate").Return("st_one", session.DigestToken("st_one"), nil).Once()
	tokens.On("Generate").Return("st_two", session.DigestToken("st_two"), nil).Once()
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := NewLoginUseCase(ledger, accounts, tokens, events, time.Hour, logger.NewNopLogger())
	ctx := context.Background()

	_, err := uc.Execute(ctx, LoginCommand{AccountID: 9})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, LoginCommand{AccountID: 9})
	require.NoError(t, err)

	_, err = ledger.Authenticate(ctx, "st_one")
	assert.ErrorIs(t, err, session.ErrSessionSuperseded)
	_, err = ledger.Authenticate(ctx, "st_two")
	assert.NoError(t, err)
}

func TestLoginUseCase_Execute_Errors(t *testing.T) {
	dbErr := errors.New("db down")

	tests := []struct {
		name  string
		cmd   LoginCommand
		setup func(accounts *mockAccountChecker)
		check func(t *testing.T, err error)
	}{
		{
			name:  "invalid account id",
			cmd:   LoginCommand{AccountID: 0},
			setup: func(*mockAccountChecker) {},
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsValidationError(err))
			},
		},
		{
			name:  "negative lifetime",
			cmd:   LoginCommand{AccountID: 1, Lifetime: -time.Second},
			setup: func(*mockAccountChecker) {},
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsValidationError(err))
			},
		},
		{
			name: "unknown account",
			cmd:  LoginCommand{AccountID: 2},
			setup: func(accounts *mockAccountChecker) {
				accounts.On("AccountExists", mock.Anything, session.AccountID(2)).Return(false, nil)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsNotFoundError(err))
			},
		},
		{
			name: "account lookup fails",
			cmd:  LoginCommand{AccountID: 3},
			setup: func(accounts *mockAccountChecker) {
				accounts.On("AccountExists", mock.Anything, session.AccountID(3)).Return(false, dbErr)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, dbErr)
				assert.True(t, apperrors.IsUnavailableError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(mockAccountChecker)
			tokens := new(mockTokenGenerator)
			events := new(mockPublisher)
			tt.setup(accounts)

			uc := NewLoginUseCase(newTestLedger(t), accounts, tokens, events, time.Hour, logger.NewNopLogger())

			result, err := uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Nil(t, result)
			tt.check(t, err)

			tokens.AssertNotCalled(t, "Generate")
			events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestLoginUseCase_Execute_PublishFailureIsNotFatal(t *testing.T) {
	accounts := new(mockAccountChecker)
	tokens := new(mockTokenGenerator)
	events := new(mockPublisher)

	accounts.On("AccountExists", mock.Anything, session.AccountID(4)).Return(true, nil)
	tokens.On("Generate").Return("st_x", session.DigestToken("st_x"), nil)
	events.On("Publish", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	uc := NewLoginUseCase(newTestLedger(t), accounts, tokens, events, time.Hour, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), LoginCommand{AccountID: 4})
	require.NoError(t, err)
	assert.Equal(t, "st_x", result.Token)
}
