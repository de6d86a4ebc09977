package player

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-lords/internal/domain"
)

// ApplyOutcome adds a completed match to both players' counters. Both players
// must exist; nothing is written otherwise. Each side's deaths grow by the
// other side's kills.
func (s *Service) ApplyOutcome(ctx context.Context, outcome domain.Outcome) error {
	if outcome.WinnerKills < 0 || outcome.LoserKills < 0 {
		return domain.ErrInvalidStats
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	winner, err := s.load(ctx, outcome.WinnerID)
	if err != nil {
		return err
	}
	loser, err := s.load(ctx, outcome.LoserID)
	if err != nil {
		return err
	}

	if outcome.Draw {
		winner.Draws++
		loser.Draws++
	} else {
		winner.Wins++
		loser.Losses++
	}
	winner.Kills += outcome.WinnerKills
	winner.Deaths += outcome.LoserKills
	loser.Kills += outcome.LoserKills
	loser.Deaths += outcome.WinnerKills

	// Both sides are written together so a failed write never leaves one
	// player updated and the other not.
	if err := s.saveAll(ctx, winner, loser); err != nil {
		return err
	}
	log.Info("Updated player stats", "winner", winner.ID, "loser", loser.ID, "draw", outcome.Draw)
	return nil
}

// Adjust applies an administrative delta to a player's counters.
func (s *Service) Adjust(ctx context.Context, id string, delta Delta) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Wins = clamp(p.Wins + delta.Wins)
	p.Losses = clamp(p.Losses + delta.Losses)
	p.Draws = clamp(p.Draws + delta.Draws)
	p.Kills = clamp(p.Kills + delta.Kills)
	p.Deaths = clamp(p.Deaths + delta.Deaths)

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	log.Info("Adjusted player stats", "playerID", id, "delta", fmt.Sprintf("%+v", delta))
	return p, nil
}

// Reset zeroes every counter of a player.
func (s *Service) Reset(ctx context.Context, id string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Wins, p.Losses, p.Draws, p.Kills, p.Deaths = 0, 0, 0, 0, 0
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	log.Info("Reset player stats", "playerID", id)
	return p, nil
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
