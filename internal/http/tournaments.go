package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-lords/internal/tournament"
)

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := s.Tournaments.List(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, tournaments)
	}
}

// CurrentTournamentHandler returns the tournament currently taking
// registrations.
func (s *Server) CurrentTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := s.Tournaments.Current(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

func (s *Server) GetTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := s.Tournaments.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

// JoinTournamentHandler signs the caller up.
func (s *Server) JoinTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := s.Tournaments.Join(r.Context(), r.PathValue("id"), claimsFromContext(r).PlayerID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tournament.CreateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.CreatorID = claimsFromContext(r).PlayerID
		t, err := s.Tournaments.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, t)
	}
}

func (s *Server) StartTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := s.Tournaments.Start(r.Context(), r.PathValue("id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		log.Info("Tournament started by admin", "tournamentID", t.ID, "by", claimsFromContext(r).PlayerID)
		respondJSON(w, http.StatusOK, t)
	}
}

func (s *Server) CompleteTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := s.Tournaments.Complete(r.Context(), r.PathValue("id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		log.Info("Tournament completed by admin", "tournamentID", t.ID, "by", claimsFromContext(r).PlayerID)
		respondJSON(w, http.StatusOK, t)
	}
}
