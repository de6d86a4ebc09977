package duel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/notifier"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/store"
)

const maxIDAttempts = 5

// New creates a duel Service. loc is the zone used to interpret wall-clock
// times such as "today at 20:00".
func New(s store.Store, players player.Registry, stats player.StatsUpdater, events notifier.EventDispatcher, clock clockwork.Clock, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:   s,
		players: players,
		stats:   stats,
		events:  events,
		clock:   clock,
		loc:     loc,
		newID:   func() string { return uuid.NewString()[:8] },
	}
}

// Create validates a request and stores a new scheduled match.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Match, error) {
	if req.PlayerAID == "" || req.PlayerBID == "" {
		return nil, domain.ErrInvalidPlayer
	}
	if req.PlayerAID == req.PlayerBID {
		return nil, domain.ErrSamePlayer
	}

	now := s.clock.Now().In(s.loc)
	scheduledAt, err := s.resolveTime(now, req)
	if err != nil {
		return nil, err
	}

	for _, id := range []string{req.PlayerAID, req.PlayerBID} {
		ok, err := s.players.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("player %s: %w", id, domain.ErrNotFound)
		}
	}

	s.mu.Lock()
	id, err := s.uniqueID(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	m, err := NewMatch(id, req.PlayerAID, req.PlayerBID, scheduledAt, now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.localize(m)
	m.ChannelRef = req.ChannelRef
	m.Description = req.Description
	m.CreatedBy = req.CreatedBy
	err = s.save(ctx, m)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	log.Info("Scheduled match", "matchID", m.ID, "playerA", m.PlayerAID, "playerB", m.PlayerBID, "scheduledAt", m.ScheduledAt)
	s.events.Dispatch(ctx, domain.NewMatchEvent(domain.EventMatchScheduled, m))
	return m, nil
}

func (s *Service) resolveTime(now time.Time, req CreateRequest) (time.Time, error) {
	hour, minute := 0, 0
	if req.Hour != nil {
		hour = *req.Hour
	}
	if req.Minute != nil {
		minute = *req.Minute
	}

	switch {
	case req.At != nil:
		if !req.At.After(now) {
			return time.Time{}, fmt.Errorf("%w: %s is not in the future", domain.ErrInvalidTime, req.At.Format(time.RFC3339))
		}
		return *req.At, nil
	case req.Text != "":
		return ResolveText(now, req.Text)
	case req.Day != 0:
		return ResolveDayOfMonth(now, req.Day, hour, minute)
	case req.Hour != nil:
		return ResolveTimeOfDay(now, hour, minute)
	default:
		return time.Time{}, fmt.Errorf("%w: no start time given", domain.ErrInvalidTime)
	}
}

func (s *Service) uniqueID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		_, err := s.store.Get(ctx, store.Matches, id)
		if errors.Is(err, store.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check match id: %w", err)
		}
		log.Debug("Match id collision, regenerating", "matchID", id)
	}
	return "", fmt.Errorf("could not generate a unique match id after %d attempts", maxIDAttempts)
}

// RecordResult completes a match and applies the outcome to both players.
// The match is written first; a completed match can never be recorded again,
// which keeps statistics from being applied twice.
func (s *Service) RecordResult(ctx context.Context, req ResultRequest) (*domain.Match, error) {
	if req.WinnerKills < 0 || req.LoserKills < 0 {
		return nil, domain.ErrInvalidStats
	}
	outcome := domain.Outcome{
		WinnerID:    req.WinnerID,
		LoserID:     req.LoserID,
		Draw:        req.Draw,
		WinnerKills: req.WinnerKills,
		LoserKills:  req.LoserKills,
	}

	m, _, err := s.Transition(ctx, req.MatchID, func(m *domain.Match) (bool, error) {
		return true, Complete(m, outcome, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	log.Info("Recorded match result", "matchID", m.ID, "winner", outcome.WinnerID, "loser", outcome.LoserID, "draw", outcome.Draw)

	statsErr := s.stats.ApplyOutcome(ctx, outcome)
	// The match is completed either way, so the result is always announced.
	s.events.Dispatch(ctx, domain.NewMatchEvent(domain.EventMatchCompleted, m))
	if statsErr != nil {
		log.Error("Match completed but stats update failed", "error", statsErr, "matchID", m.ID)
		return m, fmt.Errorf("match %s recorded but stats update failed: %w", m.ID, statsErr)
	}
	return m, nil
}

// Cancel ends a match on behalf of a participant or an administrator.
func (s *Service) Cancel(ctx context.Context, matchID, requesterID string, isAdmin bool) (*domain.Match, error) {
	m, _, err := s.Transition(ctx, matchID, func(m *domain.Match) (bool, error) {
		return true, Cancel(m, requesterID, isAdmin, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	log.Info("Cancelled match", "matchID", m.ID, "by", requesterID, "admin", isAdmin)
	s.events.Dispatch(ctx, domain.NewMatchEvent(domain.EventMatchCancelled, m))
	return m, nil
}

// Get returns one match or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Match, error) {
	return s.load(ctx, id)
}

// List returns matches ordered by id, optionally filtered by status.
// Unreadable records are logged and skipped.
func (s *Service) List(ctx context.Context, statuses ...domain.MatchStatus) ([]*domain.Match, error) {
	records, err := s.store.List(ctx, store.Matches)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	matches := make([]*domain.Match, 0, len(records))
	for _, rec := range records {
		var m domain.Match
		if err := rec.Decode(&m); err != nil {
			log.Warn("Skipping unreadable match record", "matchID", rec.ID, "error", err)
			continue
		}
		if len(statuses) > 0 && !slices.Contains(statuses, m.Status) {
			continue
		}
		s.localize(&m)
		matches = append(matches, &m)
	}
	return matches, nil
}

// Transition reloads a match, applies fn and writes the result when fn
// reports a change. Nothing is written if fn fails.
func (s *Service) Transition(ctx context.Context, id string, fn TransitionFunc) (*domain.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	changed, err := fn(m)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return m, false, nil
	}
	if err := s.save(ctx, m); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Match, error) {
	rec, err := s.store.Get(ctx, store.Matches, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("match %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match %s: %w", id, err)
	}
	var m domain.Match
	if err := rec.Decode(&m); err != nil {
		return nil, err
	}
	s.localize(&m)
	return &m, nil
}

// localize renders every timestamp of m in the service location.
func (s *Service) localize(m *domain.Match) {
	in := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		local := t.In(s.loc)
		return &local
	}
	m.ScheduledAt = m.ScheduledAt.In(s.loc)
	m.CreatedAt = m.CreatedAt.In(s.loc)
	m.StartedAt = in(m.StartedAt)
	m.CompletedAt = in(m.CompletedAt)
	m.CancelledAt = in(m.CancelledAt)
}

func (s *Service) save(ctx context.Context, m *domain.Match) error {
	m.Version = domain.SchemaVersion
	if err := s.store.Put(ctx, store.Matches, m.ID, m); err != nil {
		return fmt.Errorf("failed to save match %s: %w", m.ID, err)
	}
	return nil
}
