package domain

import "time"

// TournamentStatus is the lifecycle state of a tournament.
type TournamentStatus string

const (
	TournamentRegistration TournamentStatus = "registration"
	TournamentActive       TournamentStatus = "active"
	TournamentCompleted    TournamentStatus = "completed"
)

// Tournament collects participants under a shared name. Brackets are not
// generated; participants duel each other through regular matches.
type Tournament struct {
	Version      int              `json:"version"`
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	MaxPlayers   int              `json:"max_players"`
	CreatorID    string           `json:"creator_id"`
	Participants []string         `json:"participants"`
	Status       TournamentStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	StartedAt    *time.Time       `json:"started_at,omitempty"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

// IsFull reports whether no more participants can join.
func (t *Tournament) IsFull() bool {
	return len(t.Participants) >= t.MaxPlayers
}
