package player

import (
	"context"

	"github.com/mauv0809/duel-lords/internal/domain"
)

// Registry creates and reads player records.
type Registry interface {
	Register(ctx context.Context, id, displayName string) (*domain.Player, error)
	Get(ctx context.Context, id string) (*domain.Player, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*domain.Player, error)
}

// StatsUpdater owns every mutation of player counters.
type StatsUpdater interface {
	ApplyOutcome(ctx context.Context, outcome domain.Outcome) error
	Adjust(ctx context.Context, id string, delta Delta) (*domain.Player, error)
	Reset(ctx context.Context, id string) (*domain.Player, error)
}

// Players is the full player surface used by the HTTP layer.
type Players interface {
	Registry
	StatsUpdater
}
