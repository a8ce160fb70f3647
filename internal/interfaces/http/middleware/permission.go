package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/constants"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
	"github.com/sortwise/sessiond/internal/shared/utils"
)

type AccountLoader interface {
	GetByID(ctx context.Context, id session.AccountID) (*account.Account, error)
}

type PermissionMiddleware struct {
	accounts AccountLoader
	enforcer account.PermissionEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(accounts AccountLoader, enforcer account.PermissionEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		accounts: accounts,
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequirePermission must run after RequireAuth. The account is granted when
// either its role or the account itself holds the policy. Disabled accounts
// are refused even while their session is still live.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := GetAccountID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
			c.Abort()
			return
		}

		acc, err := m.accounts.GetByID(c.Request.Context(), accountID)
		if err != nil {
			m.logger.Errorw("failed to load account for permission check", "account_id", accountID, "error", err)
			AbortWithError(c, err)
			return
		}
		if acc == nil {
			AbortWithError(c, session.ErrUnauthenticated)
			return
		}
		if !acc.Active {
			AbortWithError(c, apperrors.NewAccountInactiveError())
			return
		}

		allowed, err := m.allowed(acc, resource, action)
		if err != nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}
		if !allowed {
			m.logger.Warnw("permission denied", "account_id", accountID, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusForbidden, constants.ErrMsgForbidden)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAccount, acc)
		c.Next()
	}
}

func (m *PermissionMiddleware) allowed(acc *account.Account, resource, action string) (bool, error) {
	allowed, err := m.enforcer.Enforce(string(acc.Role), resource, action)
	if err != nil || allowed {
		return allowed, err
	}
	return m.enforcer.Enforce(account.Subject(acc.ID), resource, action)
}

// GetAccount returns the account loaded by RequirePermission.
func GetAccount(c *gin.Context) *account.Account {
	v, ok := c.Get(constants.ContextKeyAccount)
	if !ok {
		return nil
	}
	acc, _ := v.(*account.Account)
	return acc
}
