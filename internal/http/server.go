package http

import (
	"net/http"

	"github.com/mauv0809/duel-lords/internal/auth"
	"github.com/mauv0809/duel-lords/internal/config"
	"github.com/mauv0809/duel-lords/internal/duel"
	"github.com/mauv0809/duel-lords/internal/metrics"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/processor"
	"github.com/mauv0809/duel-lords/internal/tournament"
)

func NewServer(players player.Players, duels *duel.Service, tournaments *tournament.Service, proc *processor.Processor, authSvc *auth.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, counters metrics.MetricsStore, cfg config.Config) *Server {
	server := &Server{
		Players:        players,
		Duels:          duels,
		Tournaments:    tournaments,
		Processor:      proc,
		Auth:           authSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Writes additionally require a bearer token, admin routes an admin token.
	authed := s.requireAuth(false)
	admin := s.requireAuth(true)

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /process", Chain(s.ProcessMatchesHandler(), paramsMiddleware, admin))

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.RegisterPlayerHandler(), paramsMiddleware, authed))
	s.Router.Handle("GET /players/{id}", Chain(s.GetPlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))

	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware, authed))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/result", Chain(s.RecordResultHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /matches/{id}/cancel", Chain(s.CancelMatchHandler(), paramsMiddleware, authed))

	s.Router.Handle("GET /tournaments", Chain(s.ListTournamentsHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/current", Chain(s.CurrentTournamentHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/{id}", Chain(s.GetTournamentHandler(), paramsMiddleware))
	s.Router.Handle("POST /tournaments/{id}/join", Chain(s.JoinTournamentHandler(), paramsMiddleware, authed))

	s.Router.Handle("GET /admin/metrics", Chain(s.CountersHandler(), paramsMiddleware, admin))
	s.Router.Handle("POST /admin/tournaments", Chain(s.CreateTournamentHandler(), paramsMiddleware, admin))
	s.Router.Handle("POST /admin/tournaments/{id}/start", Chain(s.StartTournamentHandler(), paramsMiddleware, admin))
	s.Router.Handle("POST /admin/tournaments/{id}/complete", Chain(s.CompleteTournamentHandler(), paramsMiddleware, admin))
	s.Router.Handle("POST /admin/players/{id}/adjust", Chain(s.AdjustPlayerHandler(), paramsMiddleware, admin))
	s.Router.Handle("POST /admin/players/{id}/reset", Chain(s.ResetPlayerHandler(), paramsMiddleware, admin))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
