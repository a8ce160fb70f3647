package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/constants"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/utils"
)

// RespondError writes err as an API error. Store and account directory
// outages answer 503 with a Retry-After hint; a token that no longer names a
// live session answers 401.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrStoreUnavailable):
		c.Header(constants.HeaderRetryAfter, "1")
		utils.ErrorResponseWithError(c, apperrors.NewUnavailableError(constants.ErrMsgStoreUnavailable))
	case apperrors.IsUnavailableError(err):
		c.Header(constants.HeaderRetryAfter, "1")
		utils.ErrorResponseWithError(c, err)
	case apperrors.IsRateLimitedError(err):
		c.Header(constants.HeaderRetryAfter, "60")
		utils.ErrorResponseWithError(c, err)
	case errors.Is(err, session.ErrUnauthenticated):
		utils.ErrorResponseWithError(c, apperrors.NewSessionExpiredError())
	default:
		utils.ErrorResponseWithError(c, err)
	}
}

// AbortWithError is RespondError followed by c.Abort.
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}
