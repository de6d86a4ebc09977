package player

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/store"
)

// Service implements Players on top of the record store.
type Service struct {
	store store.Store
	clock clockwork.Clock
	// Serializes read-modify-write cycles on player records.
	mu sync.Mutex
}

// Delta is an administrative adjustment. Resulting counters are clamped at zero.
type Delta struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Kills  int `json:"kills"`
	Deaths int `json:"deaths"`
}

// Category selects the ordering of a leaderboard.
type Category string

const (
	CategoryWins    Category = "wins"
	CategoryKills   Category = "kills"
	CategoryKDRatio Category = "kd_ratio"
	CategoryWinRate Category = "win_rate"
)

// ParseCategory maps user input onto a category, defaulting to wins.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryKills, CategoryKDRatio, CategoryWinRate:
		return Category(s)
	default:
		return CategoryWins
	}
}

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 25
)

// Standing is one row of a leaderboard.
type Standing struct {
	Position      int     `json:"position"`
	PlayerID      string  `json:"player_id"`
	DisplayName   string  `json:"display_name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	Kills         int     `json:"kills"`
	Deaths        int     `json:"deaths"`
	MatchesPlayed int     `json:"matches_played"`
	KDRatio       float64 `json:"kd_ratio"`
	WinRate       float64 `json:"win_rate"`
	Rank          string  `json:"rank"`
}

func newStanding(position int, p *domain.Player) Standing {
	return Standing{
		Position:      position,
		PlayerID:      p.ID,
		DisplayName:   p.DisplayName,
		Wins:          p.Wins,
		Losses:        p.Losses,
		Draws:         p.Draws,
		Kills:         p.Kills,
		Deaths:        p.Deaths,
		MatchesPlayed: p.MatchesPlayed(),
		KDRatio:       p.KDRatio(),
		WinRate:       p.WinRate(),
		Rank:          p.Rank(),
	}
}
