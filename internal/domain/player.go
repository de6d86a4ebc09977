package domain

import "time"

// Player is one registered competitor. Counters only grow through match
// recording; administrative adjustments may lower them but never below zero.
type Player struct {
	Version       int       `json:"version"`
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Draws         int       `json:"draws"`
	Kills         int       `json:"kills"`
	Deaths        int       `json:"deaths"`
	RegisteredAt  time.Time `json:"registered_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// MatchesPlayed counts every recorded result, draws included.
func (p *Player) MatchesPlayed() int {
	return p.Wins + p.Losses + p.Draws
}

// KDRatio is kills per death; with no deaths it is the kill count itself.
func (p *Player) KDRatio() float64 {
	if p.Deaths == 0 {
		return float64(p.Kills)
	}
	return float64(p.Kills) / float64(p.Deaths)
}

// WinRate is the share of matches won, in percent.
func (p *Player) WinRate() float64 {
	total := p.MatchesPlayed()
	if total == 0 {
		return 0
	}
	return float64(p.Wins) / float64(total) * 100
}

// Rank buckets a player by win rate and win count.
func (p *Player) Rank() string {
	if p.MatchesPlayed() == 0 {
		return "Rookie"
	}
	rate := p.WinRate()
	switch {
	case rate >= 80 && p.Wins >= 10:
		return "Legend"
	case rate >= 70 && p.Wins >= 8:
		return "Master"
	case rate >= 60 && p.Wins >= 5:
		return "Expert"
	case rate >= 50 && p.Wins >= 3:
		return "Skilled"
	case rate >= 30:
		return "Average"
	default:
		return "Beginner"
	}
}
