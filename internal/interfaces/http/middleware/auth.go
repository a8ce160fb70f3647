package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/constants"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
	"github.com/sortwise/sessiond/internal/shared/utils"
)

// SessionAuthenticator resolves a bearer token to its account, extending the
// session on success.
type SessionAuthenticator interface {
	AuthenticateRequest(ctx context.Context, token string) (session.AccountID, error)
}

type AuthMiddleware struct {
	sessions SessionAuthenticator
	logger   logger.Interface
}

func NewAuthMiddleware(sessions SessionAuthenticator, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
			c.Abort()
			return
		}

		accountID, err := m.sessions.AuthenticateRequest(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrStoreUnavailable) || apperrors.IsUnavailableError(err) {
				m.logger.Errorw("dependency unavailable during authentication", "error", err)
			} else {
				m.logger.Debugw("rejected session token", "error", err)
			}
			AbortWithError(c, err)
			return
		}

		setSession(c, accountID, token)
		c.Next()
	}
}

// OptionalAuth attaches the account when the request carries a live session
// and lets anonymous requests through. A store or account directory outage
// still fails the request: treating it as anonymous would silently downgrade
// callers.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.Next()
			return
		}

		accountID, err := m.sessions.AuthenticateRequest(c.Request.Context(), token)
		switch {
		case err == nil:
			setSession(c, accountID, token)
		case errors.Is(err, session.ErrStoreUnavailable) || apperrors.IsUnavailableError(err):
			m.logger.Errorw("dependency unavailable during optional authentication", "error", err)
			AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if len(header) <= len(constants.BearerPrefix) ||
		!strings.EqualFold(header[:len(constants.BearerPrefix)], constants.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(constants.BearerPrefix):])
	return token, token != ""
}

func setSession(c *gin.Context, accountID session.AccountID, token string) {
	c.Set(constants.ContextKeyAccountID, accountID)
	c.Set(constants.ContextKeyToken, token)
}

// GetAccountID returns the account attached by RequireAuth or OptionalAuth.
func GetAccountID(c *gin.Context) (session.AccountID, bool) {
	v, ok := c.Get(constants.ContextKeyAccountID)
	if !ok {
		return 0, false
	}
	id, ok := v.(session.AccountID)
	return id, ok
}

// GetToken returns the bearer token of an authenticated request.
func GetToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeyToken)
}
