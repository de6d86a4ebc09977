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

type Server struct {
	Players        player.Players
	Duels          *duel.Service
	Tournaments    *tournament.Service
	Processor      *processor.Processor
	Auth           *auth.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Router         *http.ServeMux
}

type registerRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type errorResponse struct {
	Error string `json:"error"`
}
