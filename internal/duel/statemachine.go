package duel

import (
	"fmt"
	"time"

	"github.com/mauv0809/duel-lords/internal/domain"
)

const (
	// ReminderLead is how long before the scheduled start the reminder fires.
	ReminderLead = 5 * time.Minute
	// ReminderTolerance widens the reminder instant into a window so a tick of
	// roughly one minute always lands inside it once.
	ReminderTolerance = 30 * time.Second
)

// NewMatch builds a scheduled match. scheduledAt must be strictly after now.
func NewMatch(id, playerAID, playerBID string, scheduledAt, now time.Time) (*domain.Match, error) {
	if playerAID == playerBID {
		return nil, domain.ErrSamePlayer
	}
	if !scheduledAt.After(now) {
		return nil, fmt.Errorf("%w: %s is not in the future", domain.ErrInvalidTime, scheduledAt.Format(time.RFC3339))
	}
	return &domain.Match{
		Version:     domain.SchemaVersion,
		ID:          id,
		PlayerAID:   playerAID,
		PlayerBID:   playerBID,
		ScheduledAt: scheduledAt,
		Status:      domain.StatusScheduled,
		CreatedAt:   now,
	}, nil
}

// StartDue reports whether a scheduled match has reached its start time.
func StartDue(m *domain.Match, now time.Time) bool {
	return m.Status == domain.StatusScheduled && !now.Before(m.ScheduledAt)
}

// ReminderDue reports whether now lies in
// [ScheduledAt-ReminderLead-ReminderTolerance, ScheduledAt-ReminderLead+ReminderTolerance]
// and no reminder has been sent yet.
func ReminderDue(m *domain.Match, now time.Time) bool {
	if m.Status != domain.StatusScheduled || m.ReminderSent {
		return false
	}
	until := m.ScheduledAt.Sub(now)
	return until >= ReminderLead-ReminderTolerance && until <= ReminderLead+ReminderTolerance
}

// Activate moves a scheduled match to active.
func Activate(m *domain.Match, now time.Time) error {
	if err := checkMutable(m); err != nil {
		return err
	}
	if m.Status != domain.StatusScheduled {
		return fmt.Errorf("match %s is %s, not scheduled", m.ID, m.Status)
	}
	m.Status = domain.StatusActive
	started := now
	m.StartedAt = &started
	return nil
}

// MarkReminderSent flips the reminder flag. It never flips back.
func MarkReminderSent(m *domain.Match) error {
	if err := checkMutable(m); err != nil {
		return err
	}
	if m.ReminderSent {
		return fmt.Errorf("match %s reminder already sent", m.ID)
	}
	m.ReminderSent = true
	return nil
}

// Complete records an outcome. Winner and loser must be exactly the two
// participants.
func Complete(m *domain.Match, outcome domain.Outcome, now time.Time) error {
	if err := checkMutable(m); err != nil {
		return err
	}
	if outcome.WinnerKills < 0 || outcome.LoserKills < 0 {
		return domain.ErrInvalidStats
	}
	if outcome.WinnerID == outcome.LoserID || !m.IsParticipant(outcome.WinnerID) || !m.IsParticipant(outcome.LoserID) {
		return fmt.Errorf("%w: result must name %s and %s", domain.ErrNotParticipant, m.PlayerAID, m.PlayerBID)
	}
	result := outcome
	m.Result = &result
	m.Status = domain.StatusCompleted
	completed := now
	m.CompletedAt = &completed
	return nil
}

// Cancel ends a match without a result. Only a participant or an
// administrator may cancel.
func Cancel(m *domain.Match, requesterID string, isAdmin bool, now time.Time) error {
	if err := checkMutable(m); err != nil {
		return err
	}
	if !isAdmin && !m.IsParticipant(requesterID) {
		return domain.ErrForbidden
	}
	m.Status = domain.StatusCancelled
	cancelled := now
	m.CancelledAt = &cancelled
	m.CancelledBy = requesterID
	return nil
}

func checkMutable(m *domain.Match) error {
	if m.Status.IsTerminal() {
		return fmt.Errorf("match %s is %s: %w", m.ID, m.Status, domain.ErrAlreadyTerminal)
	}
	return nil
}
