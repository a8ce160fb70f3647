package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sortwise/sessiond/internal/shared/logger"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	store  Pinger
	logger logger.Interface
}

func NewHealthHandler(store Pinger, logger logger.Interface) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Health handles GET /health. It reports unhealthy while the session store
// cannot be reached, since no request can be authenticated then.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "store": "unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
