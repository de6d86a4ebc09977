package notifier

import (
	"context"

	"github.com/mauv0809/duel-lords/internal/domain"
)

// Notifier delivers lifecycle events to a chat platform.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// NotifyParticipant sends a direct message to one player.
	NotifyParticipant(ctx context.Context, playerID string, ev domain.Event) error
	// NotifyChannel posts a public announcement.
	NotifyChannel(ctx context.Context, channelRef string, ev domain.Event) error
}

// EventDispatcher hands an event to every interested recipient. It never
// fails; delivery problems are reported in the returned Report.
type EventDispatcher interface {
	Dispatch(ctx context.Context, ev domain.Event) Report
}
