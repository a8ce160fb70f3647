package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountUsecases "github.com/sortwise/sessiond/internal/application/account/usecases"
	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/interfaces/http/middleware"
	"github.com/sortwise/sessiond/internal/shared/biztime"
	"github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
	"github.com/sortwise/sessiond/internal/shared/utils"
)

const tokenTypeBearer = "bearer"

type AuthHandler struct {
	accounts AccountService
	sessions ownSessionService
	logger   logger.Interface
}

func NewAuthHandler(accounts AccountService, sessions ownSessionService, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.accounts.LoginWithPassword(c.Request.Context(), accountUsecases.PasswordLoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.GetAuthError(err) == nil {
			h.logger.Warnw("login failed", "error", err)
		}
		middleware.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", &LoginResponse{
		AccessToken: result.Token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   biztime.Format(result.Session.ExpiresAt),
		ExpiresIn:   int64(result.Session.Remaining(biztime.NowUTC()).Seconds()),
		Account:     toAccountResponse(result.Account),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		middleware.RespondError(c, session.ErrUnauthenticated)
		return
	}

	err := h.sessions.Logout(c.Request.Context(), sessionUsecases.LogoutCommand{
		Token:     middleware.GetToken(c),
		AccountID: accountID,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		middleware.RespondError(c, session.ErrUnauthenticated)
		return
	}

	acc, err := h.accounts.Get(c.Request.Context(), accountID)
	if err != nil {
		h.logger.Errorw("failed to load account", "account_id", accountID, "error", err)
		middleware.RespondError(c, err)
		return
	}
	if acc == nil {
		middleware.RespondError(c, session.ErrUnauthenticated)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toAccountResponse(acc))
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	sess, err := h.sessions.Describe(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toSessionResponse(sess, biztime.NowUTC()))
}
