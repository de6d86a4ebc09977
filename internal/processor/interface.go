package processor

import (
	"context"

	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/duel"
	"github.com/mauv0809/duel-lords/internal/notifier"
)

// Matches defines the match operations required by the processor.
type Matches interface {
	List(ctx context.Context, statuses ...domain.MatchStatus) ([]*domain.Match, error)
	Transition(ctx context.Context, id string, fn duel.TransitionFunc) (*domain.Match, bool, error)
}

// Dispatcher defines the notification operations required by the processor.
// This is an alias for the notifier interface for decoupling.
type Dispatcher interface {
	notifier.EventDispatcher
}
