package duel

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/notifier"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/store"
)

// Service owns the lifecycle of matches. Every match write in the process
// goes through it so read-modify-write cycles never interleave.
type Service struct {
	store   store.Store
	players player.Registry
	stats   player.StatsUpdater
	events  notifier.EventDispatcher
	clock   clockwork.Clock
	loc     *time.Location
	newID   func() string

	mu sync.Mutex
}

// CreateRequest asks for a new duel. The start time is taken from the first
// populated source: At, Text, Day (with Hour and Minute), then Hour and Minute
// alone.
type CreateRequest struct {
	PlayerAID   string     `json:"player_a_id"`
	PlayerBID   string     `json:"player_b_id"`
	// At is an exact start; it must be in the future and never rolls forward.
	At          *time.Time `json:"at,omitempty"`
	Text        string     `json:"text,omitempty"`
	Day         int        `json:"day,omitempty"`
	Hour        *int       `json:"hour,omitempty"`
	Minute      *int       `json:"minute,omitempty"`
	ChannelRef  string     `json:"channel_ref,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedBy   string     `json:"-"`
}

// ResultRequest reports the outcome of a duel.
type ResultRequest struct {
	MatchID     string `json:"-"`
	WinnerID    string `json:"winner_id"`
	LoserID     string `json:"loser_id"`
	Draw        bool   `json:"draw"`
	WinnerKills int    `json:"winner_kills"`
	LoserKills  int    `json:"loser_kills"`
}

// TransitionFunc mutates a freshly loaded match and reports whether it
// changed.
type TransitionFunc func(m *domain.Match) (bool, error)
