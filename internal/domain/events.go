package domain

import "time"

// EventKind names a notification-worthy moment in a match's life.
type EventKind string

const (
	EventReminder       EventKind = "reminder"
	EventMatchStarting  EventKind = "match_starting"
	EventMatchCompleted EventKind = "match_completed"
	EventMatchScheduled EventKind = "match_scheduled"
	EventMatchCancelled EventKind = "match_cancelled"
)

// Event is handed from the lifecycle engine to the dispatcher.
type Event struct {
	Kind        EventKind `json:"kind"`
	MatchID     string    `json:"match_id"`
	PlayerAID   string    `json:"player_a_id"`
	PlayerBID   string    `json:"player_b_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	ChannelRef  string    `json:"channel_ref,omitempty"`
	// Only set on match_completed. LoserID is empty for a draw.
	WinnerID string   `json:"winner_id,omitempty"`
	LoserID  string   `json:"loser_id,omitempty"`
	Stats    *Outcome `json:"stats,omitempty"`
}

// NewMatchEvent builds an event of the given kind from a match snapshot.
func NewMatchEvent(kind EventKind, m *Match) Event {
	ev := Event{
		Kind:        kind,
		MatchID:     m.ID,
		PlayerAID:   m.PlayerAID,
		PlayerBID:   m.PlayerBID,
		ScheduledAt: m.ScheduledAt,
		ChannelRef:  m.ChannelRef,
	}
	if kind == EventMatchCompleted && m.Result != nil {
		stats := *m.Result
		ev.Stats = &stats
		ev.WinnerID = stats.WinnerID
		if !stats.Draw {
			ev.LoserID = stats.LoserID
		}
	}
	return ev
}

// Participants returns the players that should receive a direct notification.
func (e Event) Participants() []string {
	var ids []string
	for _, id := range []string{e.PlayerAID, e.PlayerBID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
