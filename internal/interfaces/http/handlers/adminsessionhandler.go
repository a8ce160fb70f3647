package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionUsecases "github.com/sortwise/sessiond/internal/application/session/usecases"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/interfaces/http/middleware"
	"github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
	"github.com/sortwise/sessiond/internal/shared/utils"
)

type AdminSessionHandler struct {
	sessions adminSessionService
	logger   logger.Interface
}

func NewAdminSessionHandler(sessions adminSessionService, logger logger.Interface) *AdminSessionHandler {
	return &AdminSessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// ListOnline handles GET /api/admin/sessions/online
func (h *AdminSessionHandler) ListOnline(c *gin.Context) {
	ids, err := h.sessions.ListOnline(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", &OnlineAccountsResponse{
		AccountIDs: toInt64s(ids),
		Count:      len(ids),
	})
}

// CountOnline handles GET /api/admin/sessions/online/count
func (h *AdminSessionHandler) CountOnline(c *gin.Context) {
	n, err := h.sessions.CountOnline(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", &OnlineCountResponse{Count: n})
}

// ForceLogout handles DELETE /api/admin/sessions/:account_id
func (h *AdminSessionHandler) ForceLogout(c *gin.Context) {
	target, err := session.ParseAccountID(c.Param("account_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid account id", c.Param("account_id")))
		return
	}

	actor, ok := middleware.GetAccountID(c)
	if !ok {
		middleware.RespondError(c, session.ErrUnauthenticated)
		return
	}

	kicked, err := h.sessions.ForceLogout(c.Request.Context(), sessionUsecases.ForceLogoutCommand{
		ActorID:  actor,
		TargetID: target,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	h.logger.Infow("admin forced logout", "actor_id", actor, "target_id", target, "kicked", kicked)

	utils.SuccessResponse(c, http.StatusOK, "", &ForceLogoutResponse{
		AccountID: int64(target),
		Kicked:    kicked,
	})
}
