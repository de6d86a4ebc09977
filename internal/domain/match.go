package domain

import "time"

// SchemaVersion is written into every persisted record.
const SchemaVersion = 1

// MatchStatus is the lifecycle state of a duel.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusActive    MatchStatus = "active"
	StatusCompleted MatchStatus = "completed"
	StatusCancelled MatchStatus = "cancelled"
)

// IsTerminal reports whether no further transition may leave this status.
func (s MatchStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Outcome is the recorded result of a completed duel. On a draw WinnerID and
// LoserID simply name the two sides.
type Outcome struct {
	WinnerID    string `json:"winner_id"`
	LoserID     string `json:"loser_id"`
	Draw        bool   `json:"draw"`
	WinnerKills int    `json:"winner_kills"`
	LoserKills  int    `json:"loser_kills"`
}

// Match is one scheduled duel between exactly two players.
type Match struct {
	Version      int         `json:"version"`
	ID           string      `json:"id"`
	PlayerAID    string      `json:"player_a_id"`
	PlayerBID    string      `json:"player_b_id"`
	ScheduledAt  time.Time   `json:"scheduled_at"`
	Status       MatchStatus `json:"status"`
	ReminderSent bool        `json:"reminder_sent"`
	ChannelRef   string      `json:"channel_ref,omitempty"`
	Description  string      `json:"description,omitempty"`
	CreatedBy    string      `json:"created_by,omitempty"`
	Result       *Outcome    `json:"result,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	CancelledAt  *time.Time  `json:"cancelled_at,omitempty"`
	CancelledBy  string      `json:"cancelled_by,omitempty"`
}

// IsParticipant reports whether playerID is one of the two duelists.
func (m *Match) IsParticipant(playerID string) bool {
	return playerID != "" && (playerID == m.PlayerAID || playerID == m.PlayerBID)
}

// Participants returns both player ids in creation order.
func (m *Match) Participants() []string {
	return []string{m.PlayerAID, m.PlayerBID}
}
