package http

import (
	"net/http"
	"testing"

	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentHandlers(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "A", "B", "C")
	admin := ts.token(t, "ADMIN", true)

	t.Run("no open tournament", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/tournaments/current", "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("only admins create tournaments", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/admin/tournaments", ts.token(t, "A", false), tournament.CreateRequest{Name: "Cup"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing name is a bad request", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/admin/tournaments", admin, tournament.CreateRequest{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	rr := ts.do(t, http.MethodPost, "/admin/tournaments", admin, tournament.CreateRequest{Name: "Cup", MaxPlayers: 2})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[domain.Tournament](t, rr)
	assert.Equal(t, "ADMIN", created.CreatorID)
	assert.Equal(t, tournament.DefaultDescription, created.Description)
	assert.Equal(t, domain.TournamentRegistration, created.Status)
	joinURL := "/tournaments/" + created.ID + "/join"

	t.Run("current and get return the new tournament", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/tournaments/current", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, created.ID, decode[domain.Tournament](t, rr).ID)

		rr = ts.do(t, http.MethodGet, "/tournaments/"+created.ID, "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Cup", decode[domain.Tournament](t, rr).Name)

		rr = ts.do(t, http.MethodGet, "/tournaments", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]domain.Tournament](t, rr), 1)
	})

	t.Run("join needs a token", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, joinURL, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unregistered caller cannot join", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, joinURL, ts.token(t, "ghost", false), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("caller joins once", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, joinURL, ts.token(t, "A", false), nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, []string{"A"}, decode[domain.Tournament](t, rr).Participants)

		rr = ts.do(t, http.MethodPost, joinURL, ts.token(t, "A", false), nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("full tournament is a conflict", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, joinURL, ts.token(t, "B", false), nil)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = ts.do(t, http.MethodPost, joinURL, ts.token(t, "C", false), nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("admin starts and completes", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/admin/tournaments/"+created.ID+"/start", ts.token(t, "A", false), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = ts.do(t, http.MethodPost, "/admin/tournaments/"+created.ID+"/start", admin, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, domain.TournamentActive, decode[domain.Tournament](t, rr).Status)

		rr = ts.do(t, http.MethodGet, "/tournaments/current", "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = ts.do(t, http.MethodPost, "/admin/tournaments/"+created.ID+"/complete", admin, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.TournamentCompleted, decode[domain.Tournament](t, rr).Status)

		rr = ts.do(t, http.MethodPost, "/admin/tournaments/"+created.ID+"/complete", admin, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/tournaments/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
