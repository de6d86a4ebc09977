package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/duel-lords/internal/domain"
)

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchScheduled EventType = "duel-match-scheduled"
	EventReminder       EventType = "duel-reminder"
	EventMatchStarting  EventType = "duel-match-starting"
	EventMatchCompleted EventType = "duel-match-completed"
	EventMatchCancelled EventType = "duel-match-cancelled"
)

// TopicFor maps a lifecycle event kind onto its topic.
func TopicFor(kind domain.EventKind) EventType {
	switch kind {
	case domain.EventReminder:
		return EventReminder
	case domain.EventMatchStarting:
		return EventMatchStarting
	case domain.EventMatchCompleted:
		return EventMatchCompleted
	case domain.EventMatchCancelled:
		return EventMatchCancelled
	default:
		return EventMatchScheduled
	}
}
