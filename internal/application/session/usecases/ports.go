package usecases

import (
	"context"
	"fmt"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/constants"
	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// TokenGenerator issues opaque session tokens.
type TokenGenerator interface {
	Generate() (plainToken string, digest string, err error)
}

// publishEvent delivers event best-effort. Sessions are authoritative in the
// store; subscribers that miss an event converge on their next lookup.
func publishEvent(ctx context.Context, pub session.EventPublisher, log logger.Interface, event session.Event) {
	if err := pub.Publish(ctx, event); err != nil {
		log.Warnw("failed to publish session event",
			"type", event.Type,
			"account_id", event.AccountID,
			"error", err,
		)
	}
}

// accountCheckFailed marks a fault of the account directory as transient. The
// cause stays reachable through errors.Is.
func accountCheckFailed(err error) error {
	return fmt.Errorf("%w: %w", apperrors.NewUnavailableError(constants.ErrMsgAccountsUnavailable), err)
}
