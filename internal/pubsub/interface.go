package pubsub

import "context"

// PubSubClient publishes duel events for downstream consumers.
type PubSubClient interface {
	SendMessage(ctx context.Context, topic EventType, data any) error
	Close() error
}
