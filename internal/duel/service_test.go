package duel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/notifier"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	store   *store.MockStore
	players *player.Service
	events  *notifier.MockDispatcher
	clock   *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewMock()
	clock := clockwork.NewFakeClockAt(t0)
	players := player.New(s, clock)
	events := notifier.NewMockDispatcher()

	ctx := context.Background()
	for _, id := range []string{"A", "B", "C"} {
		_, err := players.Register(ctx, id, "Player "+id)
		require.NoError(t, err)
	}
	s.Reset()

	return &fixture{
		svc:     New(s, players, players, events, clock, time.UTC),
		store:   s,
		players: players,
		events:  events,
		clock:   clock,
	}
}

func intPtr(v int) *int { return &v }

func (f *fixture) matchPuts() int {
	n := 0
	for _, c := range f.store.PutCalls {
		if c.Collection == store.Matches {
			n++
		}
	}
	return n
}

func (f *fixture) create(t *testing.T, at time.Time) *domain.Match {
	t.Helper()
	m, err := f.svc.Create(context.Background(), CreateRequest{PlayerAID: "A", PlayerBID: "B", At: &at})
	require.NoError(t, err)
	return m
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("elapsed hour rolls forward one day and emits match_scheduled", func(t *testing.T) {
		f := newFixture(t)

		m, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "B", Hour: intPtr(9), Minute: intPtr(15), ChannelRef: "C-duels"})
		require.NoError(t, err)

		assert.Len(t, m.ID, 8)
		assertTime(t, time.Date(2025, 3, 11, 9, 15, 0, 0, time.UTC), m.ScheduledAt)
		assert.True(t, m.ScheduledAt.After(f.clock.Now()))
		assert.Equal(t, domain.StatusScheduled, m.Status)

		stored, err := f.svc.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "C-duels", stored.ChannelRef)

		evs := f.events.Events(domain.EventMatchScheduled)
		require.Len(t, evs, 1)
		assert.Equal(t, m.ID, evs[0].MatchID)
	})

	t.Run("day of month", func(t *testing.T) {
		f := newFixture(t)

		m, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "B", Day: 1, Hour: intPtr(20)})
		require.NoError(t, err)
		assertTime(t, time.Date(2025, 4, 1, 20, 0, 0, 0, time.UTC), m.ScheduledAt)
	})

	t.Run("free text", func(t *testing.T) {
		f := newFixture(t)

		m, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "B", Text: "tomorrow at 9pm"})
		require.NoError(t, err)
		assertTime(t, time.Date(2025, 3, 11, 21, 0, 0, 0, time.UTC), m.ScheduledAt)
	})

	t.Run("same player stores nothing", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "A", Hour: intPtr(20)})
		require.ErrorIs(t, err, domain.ErrSamePlayer)
		assert.True(t, domain.IsValidation(err))
		assert.Zero(t, f.matchPuts())
		assert.Empty(t, f.events.DispatchCalls)
	})

	t.Run("unknown player stores nothing", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "ghost", Hour: intPtr(20)})
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Zero(t, f.matchPuts())
	})

	t.Run("explicit time in the past", func(t *testing.T) {
		f := newFixture(t)
		past := t0.Add(-time.Minute)

		_, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "B", At: &past})
		require.ErrorIs(t, err, domain.ErrInvalidTime)
	})

	t.Run("out of range hour is rejected, not clamped", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "B", Hour: intPtr(24)})
		require.ErrorIs(t, err, domain.ErrInvalidTime)
		assert.Zero(t, f.matchPuts())
	})

	t.Run("no time at all", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "B"})
		require.ErrorIs(t, err, domain.ErrInvalidTime)
	})

	t.Run("id collision regenerates", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Put(ctx, store.Matches, "dup00000", &domain.Match{ID: "dup00000"}))
		ids := []string{"dup00000", "fresh000"}
		f.svc.newID = func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}

		m := f.create(t, t0.Add(time.Hour))
		assert.Equal(t, "fresh000", m.ID)
	})

	t.Run("store failure is not a validation error", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutFunc = func(ctx context.Context, c store.Collection, id string, v any) error {
			return errors.New("database is locked")
		}

		_, err := f.svc.Create(ctx, CreateRequest{PlayerAID: "A", PlayerBID: "B", Hour: intPtr(20)})
		require.Error(t, err)
		assert.False(t, domain.IsValidation(err))
		assert.Empty(t, f.events.DispatchCalls)
	})
}

func TestService_RecordResult(t *testing.T) {
	ctx := context.Background()

	t.Run("completes the match and updates stats once", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))

		done, err := f.svc.RecordResult(ctx, ResultRequest{MatchID: m.ID, WinnerID: "B", LoserID: "A", WinnerKills: 8, LoserKills: 5})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, done.Status)

		b, _ := f.players.Get(ctx, "B")
		assert.Equal(t, 1, b.Wins)
		assert.Equal(t, 8, b.Kills)
		assert.Equal(t, 5, b.Deaths)

		evs := f.events.Events(domain.EventMatchCompleted)
		require.Len(t, evs, 1)
		assert.Equal(t, "B", evs[0].WinnerID)
		assert.Equal(t, "A", evs[0].LoserID)

		_, err = f.svc.RecordResult(ctx, ResultRequest{MatchID: m.ID, WinnerID: "B", LoserID: "A", WinnerKills: 8, LoserKills: 5})
		require.ErrorIs(t, err, domain.ErrAlreadyTerminal)
		b, _ = f.players.Get(ctx, "B")
		assert.Equal(t, 1, b.Wins, "stats must not be applied twice")
		assert.Len(t, f.events.Events(domain.EventMatchCompleted), 1)
	})

	t.Run("draw has no loser in the event", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))

		_, err := f.svc.RecordResult(ctx, ResultRequest{MatchID: m.ID, WinnerID: "A", LoserID: "B", Draw: true, WinnerKills: 2, LoserKills: 2})
		require.NoError(t, err)

		evs := f.events.Events(domain.EventMatchCompleted)
		require.Len(t, evs, 1)
		assert.Empty(t, evs[0].LoserID)
		assert.True(t, evs[0].Stats.Draw)
	})

	t.Run("winner outside the match leaves status unchanged", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))

		_, err := f.svc.RecordResult(ctx, ResultRequest{MatchID: m.ID, WinnerID: "C", LoserID: "A"})
		require.ErrorIs(t, err, domain.ErrNotParticipant)

		stored, _ := f.svc.Get(ctx, m.ID)
		assert.Equal(t, domain.StatusScheduled, stored.Status)
		c, _ := f.players.Get(ctx, "C")
		assert.Zero(t, c.Wins)
	})

	t.Run("negative kills are rejected before touching the match", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))
		f.store.Reset()

		_, err := f.svc.RecordResult(ctx, ResultRequest{MatchID: m.ID, WinnerID: "A", LoserID: "B", WinnerKills: -1})
		require.ErrorIs(t, err, domain.ErrInvalidStats)
		assert.Empty(t, f.store.GetCalls)
	})

	t.Run("stats failure keeps the match completed and still announces it", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))
		f.store.PutAllFunc = func(ctx context.Context, collection store.Collection, entries []store.Entry) error {
			return errors.New("disk I/O error")
		}

		done, err := f.svc.RecordResult(ctx, ResultRequest{MatchID: m.ID, WinnerID: "A", LoserID: "B", WinnerKills: 5, LoserKills: 2})
		require.Error(t, err)
		require.NotNil(t, done)
		assert.Equal(t, domain.StatusCompleted, done.Status)

		stored, _ := f.svc.Get(ctx, m.ID)
		assert.Equal(t, domain.StatusCompleted, stored.Status)
		assert.Len(t, f.events.Events(domain.EventMatchCompleted), 1)

		a, _ := f.players.Get(ctx, "A")
		b, _ := f.players.Get(ctx, "B")
		assert.Zero(t, a.Wins)
		assert.Zero(t, b.Losses)
	})

	t.Run("unknown match", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RecordResult(ctx, ResultRequest{MatchID: "nope", WinnerID: "A", LoserID: "B"})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("participant cancels", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))

		got, err := f.svc.Cancel(ctx, m.ID, "A", false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		assert.Len(t, f.events.Events(domain.EventMatchCancelled), 1)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))

		_, err := f.svc.Cancel(ctx, m.ID, "C", false)
		require.ErrorIs(t, err, domain.ErrForbidden)
		stored, _ := f.svc.Get(ctx, m.ID)
		assert.Equal(t, domain.StatusScheduled, stored.Status)
	})

	t.Run("admin cancels an active match", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))
		_, _, err := f.svc.Transition(ctx, m.ID, func(m *domain.Match) (bool, error) {
			return true, Activate(m, t0.Add(time.Hour))
		})
		require.NoError(t, err)

		got, err := f.svc.Cancel(ctx, m.ID, "root", true)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
	})

	t.Run("completed match cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		m := f.create(t, t0.Add(time.Hour))
		_, err := f.svc.RecordResult(ctx, ResultRequest{MatchID: m.ID, WinnerID: "A", LoserID: "B"})
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, m.ID, "A", false)
		require.ErrorIs(t, err, domain.ErrAlreadyTerminal)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.create(t, t0.Add(time.Hour))
	f.create(t, t0.Add(2*time.Hour))
	_, err := f.svc.Cancel(ctx, first.ID, "A", false)
	require.NoError(t, err)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scheduled, err := f.svc.List(ctx, domain.StatusScheduled)
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.NotEqual(t, first.ID, scheduled[0].ID)

	terminal, err := f.svc.List(ctx, domain.StatusCompleted, domain.StatusCancelled)
	require.NoError(t, err)
	require.Len(t, terminal, 1)
	assert.Equal(t, first.ID, terminal[0].ID)
}

func TestService_TransitionWithoutChangeDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.create(t, t0.Add(time.Hour))
	f.store.Reset()

	_, changed, err := f.svc.Transition(ctx, m.ID, func(m *domain.Match) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, f.matchPuts())
}
