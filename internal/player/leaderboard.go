package player

import (
	"slices"
	"sort"

	"github.com/mauv0809/duel-lords/internal/domain"
)

// Leaderboard ranks every registered player by the given category. Ties are
// broken by wins, then kills, then id.
func Leaderboard(players []*domain.Player, category Category, limit int) []Standing {
	if limit < 1 || limit > MaxLeaderboardSize {
		limit = DefaultLeaderboardSize
	}

	ranked := slices.Clone(players)

	key := func(p *domain.Player) float64 {
		switch category {
		case CategoryKills:
			return float64(p.Kills)
		case CategoryKDRatio:
			return p.KDRatio()
		case CategoryWinRate:
			return p.WinRate()
		default:
			return float64(p.Wins)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if ka, kb := key(a), key(b); ka != kb {
			return ka > kb
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Kills != b.Kills {
			return a.Kills > b.Kills
		}
		return a.ID < b.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	standings := make([]Standing, len(ranked))
	for i, p := range ranked {
		standings[i] = newStanding(i+1, p)
	}
	return standings
}
