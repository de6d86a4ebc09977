package tournament

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/store"
)

const (
	DefaultDescription = "BombSquad Tournament"
	DefaultMaxPlayers  = 16
	MaxPlayersLimit    = 128

	maxIDAttempts = 5
)

// Service manages tournament registration.
type Service struct {
	store   store.Store
	players player.Registry
	clock   clockwork.Clock
	newID   func() string

	mu sync.Mutex
}

// CreateRequest describes a new tournament. Zero values fall back to
// DefaultDescription and DefaultMaxPlayers.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MaxPlayers  int    `json:"max_players,omitempty"`
	CreatorID   string `json:"-"`
}
