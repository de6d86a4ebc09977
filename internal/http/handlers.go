package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/duel"
	"github.com/mauv0809/duel-lords/internal/player"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ProcessMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.Processor.ProcessMatches(r.Context(), isDryRunFromContext(r))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, report)
	}
}

// CountersHandler returns the persisted dispatch failure counters.
func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, counters)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.List(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Players.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// RegisterPlayerHandler registers the caller. Admins may register anyone.
func (s *Server) RegisterPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r)
		var req registerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.ID == "" {
			req.ID = claims.PlayerID
		}
		if req.ID != claims.PlayerID && !claims.IsAdmin {
			respondServiceError(w, domain.ErrForbidden)
			return
		}
		p, err := s.Players.Register(r.Context(), req.ID, req.DisplayName)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := player.ParseCategory(r.URL.Query().Get("category"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		players, err := s.Players.List(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, player.Leaderboard(players, category, limit))
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var statuses []domain.MatchStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				status := domain.MatchStatus(strings.TrimSpace(part))
				if !status.Valid() {
					respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", part))
					return
				}
				statuses = append(statuses, status)
			}
		}
		matches, err := s.Duels.List(r.Context(), statuses...)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Duels.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

// CreateMatchHandler schedules a duel. The caller must be one of the two
// players unless they hold an admin token.
func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r)
		var req duel.CreateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !claims.IsAdmin && claims.PlayerID != req.PlayerAID && claims.PlayerID != req.PlayerBID {
			respondServiceError(w, domain.ErrForbidden)
			return
		}
		req.CreatedBy = claims.PlayerID
		m, err := s.Duels.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) RecordResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r)
		var req duel.ResultRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.MatchID = r.PathValue("id")

		current, err := s.Duels.Get(r.Context(), req.MatchID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if !claims.IsAdmin && !current.IsParticipant(claims.PlayerID) {
			respondServiceError(w, domain.ErrForbidden)
			return
		}

		m, err := s.Duels.RecordResult(r.Context(), req)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r)
		m, err := s.Duels.Cancel(r.Context(), r.PathValue("id"), claims.PlayerID, claims.IsAdmin)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) AdjustPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var delta player.Delta
		if !decodeBody(w, r, &delta) {
			return
		}
		p, err := s.Players.Adjust(r.Context(), r.PathValue("id"), delta)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		log.Info("Adjusted player stats", "playerID", p.ID, "by", claimsFromContext(r).PlayerID)
		respondJSON(w, http.StatusOK, p)
	}
}

func (s *Server) ResetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Players.Reset(r.Context(), r.PathValue("id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		log.Info("Reset player stats", "playerID", p.ID, "by", claimsFromContext(r).PlayerID)
		respondJSON(w, http.StatusOK, p)
	}
}
