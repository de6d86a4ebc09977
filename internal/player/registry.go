package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/store"
)

// New creates a player Service.
func New(s store.Store, clock clockwork.Clock) *Service {
	return &Service{store: s, clock: clock}
}

// Register stores a new player. Ids are assigned by the chat platform and may
// only be registered once.
func (s *Service) Register(ctx context.Context, id, displayName string) (*domain.Player, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidPlayer
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, id); err == nil {
		log.Info("Player already registered", "playerID", id)
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	p := &domain.Player{
		Version:       domain.SchemaVersion,
		ID:            id,
		DisplayName:   displayName,
		RegisteredAt:  now,
		LastUpdatedAt: now,
	}
	if err := s.store.Put(ctx, store.Players, id, p); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}
	log.Info("Registered player", "playerID", id, "name", displayName)
	return p, nil
}

// Get returns the player or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Player, error) {
	return s.load(ctx, id)
}

// Exists reports whether a player is registered.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.load(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every registered player ordered by id.
func (s *Service) List(ctx context.Context) ([]*domain.Player, error) {
	records, err := s.store.List(ctx, store.Players)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	players := make([]*domain.Player, 0, len(records))
	for _, rec := range records {
		var p domain.Player
		if err := rec.Decode(&p); err != nil {
			log.Warn("Skipping unreadable player record", "playerID", rec.ID, "error", err)
			continue
		}
		players = append(players, &p)
	}
	return players, nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Player, error) {
	rec, err := s.store.Get(ctx, store.Players, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("player %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", id, err)
	}
	var p domain.Player
	if err := rec.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) save(ctx context.Context, p *domain.Player) error {
	p.Version = domain.SchemaVersion
	p.LastUpdatedAt = s.clock.Now()
	if err := s.store.Put(ctx, store.Players, p.ID, p); err != nil {
		return fmt.Errorf("failed to save player %s: %w", p.ID, err)
	}
	return nil
}

func (s *Service) saveAll(ctx context.Context, players ...*domain.Player) error {
	now := s.clock.Now()
	entries := make([]store.Entry, len(players))
	for i, p := range players {
		p.Version = domain.SchemaVersion
		p.LastUpdatedAt = now
		entries[i] = store.Entry{ID: p.ID, Value: p}
	}
	if err := s.store.PutAll(ctx, store.Players, entries); err != nil {
		return fmt.Errorf("failed to save players: %w", err)
	}
	return nil
}
