package domain

import "errors"

// Validation errors are reported synchronously to the caller of a transition and
// leave the affected records unchanged.
var (
	ErrNotFound          = errors.New("not found")
	ErrNotParticipant    = errors.New("not a participant")
	ErrAlreadyTerminal   = errors.New("already terminal")
	ErrInvalidTime       = errors.New("invalid time range")
	ErrAlreadyRegistered = errors.New("duplicate player: already registered")
	ErrSamePlayer        = errors.New("a player cannot duel themselves")
	ErrInvalidStats      = errors.New("invalid stats: counts must be non-negative")
	ErrForbidden         = errors.New("only match participants or administrators can do this")
	ErrInvalidPlayer     = errors.New("invalid player: id is required")

	ErrInvalidTournament  = errors.New("invalid tournament")
	ErrRegistrationClosed = errors.New("tournament registration is closed")
	ErrTournamentFull     = errors.New("tournament is full")
	ErrAlreadyJoined      = errors.New("already joined this tournament")
	ErrNotEnoughPlayers   = errors.New("tournament needs at least two participants")
	ErrNotStarted         = errors.New("tournament has not started")
)

var validationErrors = []error{
	ErrNotFound,
	ErrNotParticipant,
	ErrAlreadyTerminal,
	ErrInvalidTime,
	ErrAlreadyRegistered,
	ErrSamePlayer,
	ErrInvalidStats,
	ErrForbidden,
	ErrInvalidPlayer,
	ErrInvalidTournament,
	ErrRegistrationClosed,
	ErrTournamentFull,
	ErrAlreadyJoined,
	ErrNotEnoughPlayers,
	ErrNotStarted,
}

// IsValidation reports whether err is caused by bad input rather than an
// internal or storage failure.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
