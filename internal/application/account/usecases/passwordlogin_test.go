package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
	"github.com/sortwise/sessiond/internal/domain/session"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

func TestPasswordLoginUseCase_Success(t *testing.T) {
	repo := new(mockRepository)
	hasher := new(mockHasher)
	sessions := new(mockSessions)

	acc := activeAccount(7, "alice")
	issued := &sessionUsecases.LoginResult{
		Token:   "st_issued",
		Session: session.NewSession("st_issued", 7, time.Now(), time.Hour),
	}

	repo.On("GetByUsername", mock.Anything, "alice").Return(acc, nil)
	hasher.On("Verify", "s3cret-pass", acc.PasswordHash).Return(nil)
	sessions.On("Login", mock.Anything, sessionUsecases.LoginCommand{AccountID: 7}).Return(issued, nil)

	uc := NewPasswordLoginUseCase(repo, hasher, sessions, logger.NewNopLogger())
	result, err := uc.Execute(context.Background(), PasswordLoginCommand{Username: "alice", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, "st_issued", result.Token)
	assert.Same(t, acc, result.Account)

	repo.AssertExpectations(t)
	hasher.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestPasswordLoginUseCase_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(repo *mockRepository, hasher *mockHasher)
		wantType apperrors.ErrorType
		wantCode int
	}{
		{
			name: "unknown username",
			setup: func(repo *mockRepository, hasher *mockHasher) {
				repo.On("GetByUsername", mock.Anything, "alice").Return(nil, nil)
			},
			wantType: apperrors.ErrorTypeInvalidCredentials,
			wantCode: 401,
		},
		{
			name: "wrong password",
			setup: func(repo *mockRepository, hasher *mockHasher) {
				repo.On("GetByUsername", mock.Anything, "alice").Return(activeAccount(7, "alice"), nil)
				hasher.On("Verify", "s3cret-pass", "hash-of-alice").Return(errors.New("mismatch"))
			},
			wantType: apperrors.ErrorTypeInvalidCredentials,
			wantCode: 401,
		},
		{
			name: "inactive account",
			setup: func(repo *mockRepository, hasher *mockHasher) {
				acc := activeAccount(7, "alice")
				acc.Active = false
				repo.On("GetByUsername", mock.Anything, "alice").Return(acc, nil)
				hasher.On("Verify", "s3cret-pass", "hash-of-alice").Return(nil)
			},
			wantType: apperrors.ErrorTypeAccountInactive,
			wantCode: 403,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			hasher := new(mockHasher)
			sessions := new(mockSessions)
			tt.setup(repo, hasher)

			uc := NewPasswordLoginUseCase(repo, hasher, sessions, logger.NewNopLogger())
			_, err := uc.Execute(context.Background(), PasswordLoginCommand{Username: "alice", Password: "s3cret-pass"})

			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Equal(t, tt.wantCode, appErr.Code)
			sessions.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
		})
	}
}

func TestPasswordLoginUseCase_UnknownUserBurnsDummyVerify(t *testing.T) {
	repo := new(mockRepository)
	hasher := new(mockDummyHasher)
	sessions := new(mockSessions)

	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)
	hasher.On("VerifyDummy", "whatever-pass").Return()

	uc := NewPasswordLoginUseCase(repo, hasher, sessions, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), PasswordLoginCommand{Username: "ghost", Password: "whatever-pass"})

	assert.Error(t, err)
	hasher.AssertExpectations(t)
}

func TestPasswordLoginUseCase_MissingFields(t *testing.T) {
	uc := NewPasswordLoginUseCase(new(mockRepository), new(mockHasher), new(mockSessions), logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), PasswordLoginCommand{Username: "alice"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestPasswordLoginUseCase_StoreUnavailablePropagates(t *testing.T) {
	repo := new(mockRepository)
	hasher := new(mockHasher)
	sessions := new(mockSessions)

	repo.On("GetByUsername", mock.Anything, "alice").Return(activeAccount(7, "alice"), nil)
	hasher.On("Verify", mock.Anything, mock.Anything).Return(nil)
	sessions.On("Login", mock.Anything, mock.Anything).
		Return(nil, &session.StoreUnavailableError{Op: "put forward", Err: errors.New("dial tcp: refused")})

	uc := NewPasswordLoginUseCase(repo, hasher, sessions, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), PasswordLoginCommand{Username: "alice", Password: "s3cret-pass"})

	assert.ErrorIs(t, err, session.ErrStoreUnavailable)
}

func TestPasswordLoginUseCase_Throttled(t *testing.T) {
	repo := new(mockRepository)
	hasher := new(mockHasher)
	sessions := new(mockSessions)
	limiter := new(mockAttemptLimiter)

	limiter.On("Allow", mock.Anything, "login:alice").Return(false, nil)

	uc := NewPasswordLoginUseCase(repo, hasher, sessions, logger.NewNopLogger())
	uc.SetAttemptLimiter(limiter)

	_, err := uc.Execute(context.Background(), PasswordLoginCommand{Username: "Alice", Password: "s3cret-pass"})

	require.Error(t, err)
	assert.True(t, apperrors.IsRateLimitedError(err))
	repo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	hasher.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	limiter.AssertExpectations(t)
}

func TestPasswordLoginUseCase_SuccessResetsAttempts(t *testing.T) {
	repo := new(mockRepository)
	hasher := new(mockHasher)
	sessions := new(mockSessions)
	limiter := new(mockAttemptLimiter)

	acc := activeAccount(7, "alice")
	repo.On("GetByUsername", mock.Anything, "alice").Return(acc, nil)
	hasher.On("Verify", "s3cret-pass", acc.PasswordHash).Return(nil)
	sessions.On("Login", mock.Anything, sessionUsecases.LoginCommand{AccountID: 7}).
		Return(&sessionUsecases.LoginResult{Token: "st_issued"}, nil)
	limiter.On("Allow", mock.Anything, "login:alice").Return(true, nil)
	limiter.On("Reset", mock.Anything, "login:alice").Return(nil)

	uc := NewPasswordLoginUseCase(repo, hasher, sessions, logger.NewNopLogger())
	uc.SetAttemptLimiter(limiter)

	_, err := uc.Execute(context.Background(), PasswordLoginCommand{Username: "alice", Password: "s3cret-pass"})

	require.NoError(t, err)
	limiter.AssertExpectations(t)
}

func TestPasswordLoginUseCase_LimiterErrorFailsOpen(t *testing.T) {
	repo := new(mockRepository)
	hasher := new(mockHasher)
	sessions := new(mockSessions)
	limiter := new(mockAttemptLimiter)

	acc := activeAccount(7, "alice")
	repo.On("GetByUsername", mock.Anything, "alice").Return(acc, nil)
	hasher.On("Verify", "wrong-pass", acc.PasswordHash).Return(errors.New("mismatch"))
	limiter.On("Allow", mock.Anything, "login:alice").Return(false, errors.New("redis: connection refused"))

	uc := NewPasswordLoginUseCase(repo, hasher, sessions, logger.NewNopLogger())
	uc.SetAttemptLimiter(limiter)

	_, err := uc.Execute(context.Background(), PasswordLoginCommand{Username: "alice", Password: "wrong-pass"})

	require.Error(t, err)
	assert.NotNil(t, apperrors.GetAuthError(err))
	limiter.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
}
