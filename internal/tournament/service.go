package tournament

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/store"
)

// New creates a tournament Service.
func New(s store.Store, players player.Registry, clock clockwork.Clock) *Service {
	return &Service{
		store:   s,
		players: players,
		clock:   clock,
		newID:   func() string { return uuid.NewString()[:8] },
	}
}

// Create stores a new tournament open for registration.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Tournament, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidTournament)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = DefaultDescription
	}
	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = DefaultMaxPlayers
	}
	if maxPlayers < 2 || maxPlayers > MaxPlayersLimit {
		return nil, fmt.Errorf("%w: max players must be between 2 and %d", domain.ErrInvalidTournament, MaxPlayersLimit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueID(ctx)
	if err != nil {
		return nil, err
	}
	t := &domain.Tournament{
		ID:           id,
		Name:         name,
		Description:  description,
		MaxPlayers:   maxPlayers,
		CreatorID:    req.CreatorID,
		Participants: []string{},
		Status:       domain.TournamentRegistration,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	log.Info("Created tournament", "tournamentID", id, "name", name, "maxPlayers", maxPlayers, "by", req.CreatorID)
	return t, nil
}

// Join adds a registered player to a tournament that is still open.
func (s *Service) Join(ctx context.Context, id, playerID string) (*domain.Tournament, error) {
	ok, err := s.players.Exists(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("player %s: %w", playerID, domain.ErrNotFound)
	}

	t, err := s.update(ctx, id, func(t *domain.Tournament) error {
		switch {
		case t.Status != domain.TournamentRegistration:
			return domain.ErrRegistrationClosed
		case t.IsFull():
			return domain.ErrTournamentFull
		case slices.Contains(t.Participants, playerID):
			return domain.ErrAlreadyJoined
		}
		t.Participants = append(t.Participants, playerID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Player joined tournament", "tournamentID", id, "playerID", playerID, "participants", len(t.Participants))
	return t, nil
}

// Start closes registration.
func (s *Service) Start(ctx context.Context, id string) (*domain.Tournament, error) {
	t, err := s.update(ctx, id, func(t *domain.Tournament) error {
		if t.Status != domain.TournamentRegistration {
			return domain.ErrRegistrationClosed
		}
		if len(t.Participants) < 2 {
			return domain.ErrNotEnoughPlayers
		}
		now := s.clock.Now()
		t.Status = domain.TournamentActive
		t.StartedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Started tournament", "tournamentID", id, "participants", len(t.Participants))
	return t, nil
}

// Complete ends a started tournament.
func (s *Service) Complete(ctx context.Context, id string) (*domain.Tournament, error) {
	t, err := s.update(ctx, id, func(t *domain.Tournament) error {
		switch t.Status {
		case domain.TournamentRegistration:
			return domain.ErrNotStarted
		case domain.TournamentCompleted:
			return domain.ErrAlreadyTerminal
		}
		now := s.clock.Now()
		t.Status = domain.TournamentCompleted
		t.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Completed tournament", "tournamentID", id)
	return t, nil
}

// Get returns one tournament or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Tournament, error) {
	return s.load(ctx, id)
}

// List returns every tournament ordered by creation time, oldest first.
func (s *Service) List(ctx context.Context) ([]*domain.Tournament, error) {
	records, err := s.store.List(ctx, store.Tournaments)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	tournaments := make([]*domain.Tournament, 0, len(records))
	for _, rec := range records {
		t, err := decodeTournament(rec)
		if err != nil {
			log.Warn("Skipping unreadable tournament record", "tournamentID", rec.ID, "error", err)
			continue
		}
		tournaments = append(tournaments, t)
	}
	slices.SortStableFunc(tournaments, func(a, b *domain.Tournament) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return tournaments, nil
}

// Current returns the oldest tournament still open for registration, or
// domain.ErrNotFound when none is.
func (s *Service) Current(ctx context.Context) (*domain.Tournament, error) {
	tournaments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		if t.Status == domain.TournamentRegistration {
			return t, nil
		}
	}
	return nil, fmt.Errorf("open tournament: %w", domain.ErrNotFound)
}

// update reloads a tournament, applies fn and writes it back. Nothing is
// written if fn fails.
func (s *Service) update(ctx context.Context, id string, fn func(t *domain.Tournament) error) (*domain.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, fmt.Errorf("tournament %s: %w", id, err)
	}
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) uniqueID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		_, err := s.store.Get(ctx, store.Tournaments, id)
		if errors.Is(err, store.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check tournament id: %w", err)
		}
	}
	return "", fmt.Errorf("could not generate a unique tournament id after %d attempts", maxIDAttempts)
}

func (s *Service) load(ctx context.Context, id string) (*domain.Tournament, error) {
	rec, err := s.store.Get(ctx, store.Tournaments, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("tournament %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return decodeTournament(rec)
}

func decodeTournament(rec store.Record) (*domain.Tournament, error) {
	var t domain.Tournament
	if err := rec.Decode(&t); err != nil {
		return nil, err
	}
	// Empty lists are omitted on the wire.
	if t.Participants == nil {
		t.Participants = []string{}
	}
	return &t, nil
}

func (s *Service) save(ctx context.Context, t *domain.Tournament) error {
	t.Version = domain.SchemaVersion
	if err := s.store.Put(ctx, store.Tournaments, t.ID, t); err != nil {
		return fmt.Errorf("failed to save tournament %s: %w", t.ID, err)
	}
	return nil
}
