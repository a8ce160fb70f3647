package session

import (
	"context"
	"time"
)

type EventType string

const (
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"
	EventKick   EventType = "kick"
	// EventRevoke is a revocation the authority made on its own, such as for
	// an account that no longer exists.
	EventRevoke EventType = "revoke"
)

// Event announces a session lifecycle change to subsystems that hold
// per-session resources (for example open sockets).
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	AccountID  AccountID `json:"account_id"`
	ActorID    AccountID `json:"actor_id,omitempty"`
	TokenFP    string    `json:"token_fp,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	InstanceID string    `json:"instance_id,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// NopPublisher discards events.
func NopPublisher() EventPublisher {
	return nopPublisher{}
}
