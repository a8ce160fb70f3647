package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/goroutine"
	"github.com/sortwise/sessiond/internal/shared/id"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// DefaultSessionChannel carries session lifecycle events between instances.
const DefaultSessionChannel = "sessiond:session:events"

// SessionEventHandler is called for every received event.
type SessionEventHandler func(ctx context.Context, event session.Event)

// RedisSessionEventBus publishes and receives session events over Redis
// Pub/Sub.
type RedisSessionEventBus struct {
	client     *redis.Client
	channel    string
	instanceID string
	logger     logger.Interface
}

var _ session.EventPublisher = (*RedisSessionEventBus)(nil)

func NewRedisSessionEventBus(client *redis.Client, channel string, logger logger.Interface) *RedisSessionEventBus {
	if channel == "" {
		channel = DefaultSessionChannel
	}
	return &RedisSessionEventBus{
		client:     client,
		channel:    channel,
		instanceID: id.MustULID(),
		logger:     logger,
	}
}

// InstanceID identifies this process in published events.
func (b *RedisSessionEventBus) InstanceID() string {
	return b.instanceID
}

// Publish stamps event with an id and the instance id if missing.
func (b *RedisSessionEventBus) Publish(ctx context.Context, event session.Event) error {
	if event.ID == "" {
		eventID, err := id.NewULID(event.OccurredAt)
		if err != nil {
			return fmt.Errorf("failed to generate event id: %w", err)
		}
		event.ID = eventID
	}
	if event.InstanceID == "" {
		event.InstanceID = b.instanceID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish session event",
			"event_id", event.ID,
			"type", event.Type,
			"account_id", event.AccountID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("session event published",
		"event_id", event.ID,
		"type", event.Type,
		"account_id", event.AccountID,
	)
	return nil
}

// Subscribe blocks, calling handler for every event until ctx is done.
func (b *RedisSessionEventBus) Subscribe(ctx context.Context, handler SessionEventHandler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to session events", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("session event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("session event channel closed")
				return nil
			}

			event, err := decodeSessionEvent(msg.Payload)
			if err != nil {
				b.logger.Warnw("failed to unmarshal session event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			goroutine.SafeGo(b.logger, "session-event-handler", func() {
				handler(context.Background(), event)
			})
		}
	}
}

func decodeSessionEvent(payload string) (session.Event, error) {
	var event session.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return session.Event{}, err
	}
	if event.Type == "" || !event.AccountID.Valid() {
		return session.Event{}, fmt.Errorf("incomplete session event")
	}
	return event, nil
}
