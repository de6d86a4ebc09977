package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/duel"
	"github.com/mauv0809/duel-lords/internal/metrics"
	"github.com/mauv0809/duel-lords/internal/notifier"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

type harness struct {
	p       *Processor
	duels   *duel.Service
	store   *store.MockStore
	events  *notifier.MockDispatcher
	metrics *metrics.Mock
	clock   *clockwork.FakeClock
}

func setup(t *testing.T) *harness {
	t.Helper()
	s := store.NewMock()
	clock := clockwork.NewFakeClockAt(start)
	players := player.New(s, clock)
	for _, id := range []string{"A", "B", "C", "D"} {
		_, err := players.Register(context.Background(), id, id)
		require.NoError(t, err)
	}
	events := notifier.NewMockDispatcher()
	duels := duel.New(s, players, players, events, clock, time.UTC)
	metr := metrics.NewMock()

	return &harness{
		p:       New(duels, events, metr, clock, time.Second),
		duels:   duels,
		store:   s,
		events:  events,
		metrics: metr,
		clock:   clock,
	}
}

func (h *harness) schedule(t *testing.T, a, b string, in time.Duration) *domain.Match {
	t.Helper()
	at := h.clock.Now().Add(in)
	m, err := h.duels.Create(context.Background(), duel.CreateRequest{PlayerAID: a, PlayerBID: b, At: &at})
	require.NoError(t, err)
	return m
}

func (h *harness) get(t *testing.T, id string) *domain.Match {
	t.Helper()
	m, err := h.duels.Get(context.Background(), id)
	require.NoError(t, err)
	return m
}

func (h *harness) tick(t *testing.T) Report {
	t.Helper()
	report, err := h.p.ProcessMatches(context.Background(), false)
	require.NoError(t, err)
	return report
}

func TestProcessor_ProcessMatches(t *testing.T) {
	t.Run("elapsed match starts without a reminder", func(t *testing.T) {
		// Setup
		h := setup(t)
		m := h.schedule(t, "A", "B", 10*time.Second)

		// Execute
		h.clock.Advance(11 * time.Second)
		report := h.tick(t)

		// Assert
		assert.Equal(t, domain.StatusActive, h.get(t, m.ID).Status)
		require.Len(t, h.events.Events(domain.EventMatchStarting), 1)
		assert.Empty(t, h.events.Events(domain.EventReminder))
		assert.Equal(t, 1, report.Started)
		assert.Equal(t, 1, h.metrics.MatchesStarted())
	})

	t.Run("reminder fires inside the window and keeps the match scheduled", func(t *testing.T) {
		// Setup
		h := setup(t)
		m := h.schedule(t, "A", "B", 5*time.Minute)

		// Execute
		h.clock.Advance(5 * time.Second)
		report := h.tick(t)

		// Assert
		stored := h.get(t, m.ID)
		assert.True(t, stored.ReminderSent)
		assert.Equal(t, domain.StatusScheduled, stored.Status)
		reminders := h.events.Events(domain.EventReminder)
		require.Len(t, reminders, 1)
		assert.Equal(t, []string{"A", "B"}, reminders[0].Participants())
		assert.Equal(t, 1, report.Reminders)
	})

	t.Run("reminder is sent at most once across ticks", func(t *testing.T) {
		h := setup(t)
		h.schedule(t, "A", "B", 5*time.Minute+20*time.Second)

		for i := 0; i < 6; i++ {
			h.tick(t)
			h.clock.Advance(10 * time.Second)
		}

		assert.Len(t, h.events.Events(domain.EventReminder), 1)
	})

	t.Run("full lifecycle with one minute ticks", func(t *testing.T) {
		h := setup(t)
		m := h.schedule(t, "A", "B", 10*time.Minute+17*time.Second)

		for i := 0; i < 15; i++ {
			h.clock.Advance(time.Minute)
			h.tick(t)
		}

		assert.Len(t, h.events.Events(domain.EventReminder), 1)
		assert.Len(t, h.events.Events(domain.EventMatchStarting), 1)
		stored := h.get(t, m.ID)
		assert.Equal(t, domain.StatusActive, stored.Status)
		assert.True(t, stored.ReminderSent)
	})

	t.Run("late tick past the reminder window starts directly", func(t *testing.T) {
		h := setup(t)
		m := h.schedule(t, "A", "B", 5*time.Minute)

		h.clock.Advance(6 * time.Minute)
		report := h.tick(t)

		assert.Equal(t, 1, report.Started)
		assert.Zero(t, report.Reminders)
		assert.Empty(t, h.events.Events(domain.EventReminder))
		stored := h.get(t, m.ID)
		assert.Equal(t, domain.StatusActive, stored.Status)
		assert.False(t, stored.ReminderSent)
	})

	t.Run("at most one transition per match per tick", func(t *testing.T) {
		h := setup(t)
		h.schedule(t, "A", "B", 5*time.Minute)

		h.clock.Advance(5 * time.Second)
		report := h.tick(t)
		assert.Equal(t, 1, report.Reminders)
		assert.Zero(t, report.Started)
	})

	t.Run("terminal matches are never touched", func(t *testing.T) {
		// Setup
		h := setup(t)
		cancelled := h.schedule(t, "A", "B", time.Minute)
		completed := h.schedule(t, "C", "D", time.Minute)
		_, err := h.duels.Cancel(context.Background(), cancelled.ID, "A", false)
		require.NoError(t, err)
		_, err = h.duels.RecordResult(context.Background(), duel.ResultRequest{MatchID: completed.ID, WinnerID: "C", LoserID: "D"})
		require.NoError(t, err)
		before := []*domain.Match{h.get(t, cancelled.ID), h.get(t, completed.ID)}
		h.store.Reset()
		h.events.Reset()

		// Execute
		h.clock.Advance(time.Hour)
		report := h.tick(t)

		// Assert
		assert.Zero(t, report.Evaluated)
		assert.Empty(t, h.store.PutCalls)
		assert.Empty(t, h.events.DispatchCalls)
		assert.Equal(t, before[0], h.get(t, cancelled.ID))
		assert.Equal(t, before[1], h.get(t, completed.ID))
	})

	t.Run("store write failure skips only that match and retries next tick", func(t *testing.T) {
		// Setup
		h := setup(t)
		failing := h.schedule(t, "A", "B", 10*time.Second)
		healthy := h.schedule(t, "C", "D", 10*time.Second)
		h.store.PutFunc = func(ctx context.Context, c store.Collection, id string, v any) error {
			if id == failing.ID {
				return errors.New("disk I/O error")
			}
			return h.store.Backend().Put(ctx, c, id, v)
		}

		// Execute
		h.clock.Advance(time.Minute)
		report := h.tick(t)

		// Assert
		assert.Equal(t, 1, report.Started)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, domain.StatusScheduled, h.get(t, failing.ID).Status)
		assert.Equal(t, domain.StatusActive, h.get(t, healthy.ID).Status)
		assert.Equal(t, 1, h.metrics.StoreErrors())
		starting := h.events.Events(domain.EventMatchStarting)
		require.Len(t, starting, 1, "no notification without a successful write")
		assert.Equal(t, healthy.ID, starting[0].MatchID)

		// The store recovers.
		h.store.PutFunc = nil
		h.tick(t)
		assert.Equal(t, domain.StatusActive, h.get(t, failing.ID).Status)
		assert.Len(t, h.events.Events(domain.EventMatchStarting), 2)
	})

	t.Run("store read failure of one match does not abort the tick", func(t *testing.T) {
		h := setup(t)
		failing := h.schedule(t, "A", "B", 10*time.Second)
		healthy := h.schedule(t, "C", "D", 10*time.Second)
		h.store.GetFunc = func(ctx context.Context, c store.Collection, id string) (store.Record, error) {
			if id == failing.ID {
				return store.Record{}, errors.New("timeout")
			}
			return h.store.Backend().Get(ctx, c, id)
		}

		h.clock.Advance(time.Minute)
		report := h.tick(t)

		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, 1, report.Started)
		h.store.GetFunc = nil
		assert.Equal(t, domain.StatusActive, h.get(t, healthy.ID).Status)
	})

	t.Run("listing failure aborts the tick", func(t *testing.T) {
		h := setup(t)
		h.schedule(t, "A", "B", 10*time.Second)
		h.store.ListFunc = func(ctx context.Context, c store.Collection) ([]store.Record, error) {
			return nil, errors.New("database unavailable")
		}
		h.events.Reset()

		h.clock.Advance(time.Minute)
		_, err := h.p.ProcessMatches(context.Background(), false)

		require.Error(t, err)
		assert.Empty(t, h.events.DispatchCalls)
		assert.Equal(t, 1, h.metrics.StoreErrors())
	})

	t.Run("failed notification does not roll back the transition", func(t *testing.T) {
		h := setup(t)
		m := h.schedule(t, "A", "B", 10*time.Second)
		h.events.DispatchFunc = func(ctx context.Context, ev domain.Event) notifier.Report {
			return notifier.Report{Kind: ev.Kind, MatchID: ev.MatchID, Deliveries: []notifier.Delivery{{Target: "A", Err: errors.New("slack down")}}}
		}

		h.clock.Advance(time.Minute)
		h.tick(t)

		assert.Equal(t, domain.StatusActive, h.get(t, m.ID).Status)
	})

	t.Run("cancelled context stops before the next match", func(t *testing.T) {
		h := setup(t)
		h.schedule(t, "A", "B", 10*time.Second)
		h.events.Reset()
		h.clock.Advance(time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		report, err := h.p.ProcessMatches(ctx, false)

		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, report.Started)
		assert.Empty(t, h.events.DispatchCalls)
	})

	t.Run("dry run reports without writing", func(t *testing.T) {
		h := setup(t)
		m := h.schedule(t, "A", "B", 10*time.Second)
		h.store.Reset()
		h.events.Reset()

		h.clock.Advance(time.Minute)
		report, err := h.p.ProcessMatches(context.Background(), true)

		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.Equal(t, 1, report.Started)
		assert.Empty(t, h.store.PutCalls)
		assert.Empty(t, h.events.DispatchCalls)
		assert.Equal(t, domain.StatusScheduled, h.get(t, m.ID).Status)
		assert.Zero(t, h.metrics.MatchesStarted())
	})

	t.Run("matches are processed in stable id order", func(t *testing.T) {
		h := setup(t)
		for _, pair := range [][2]string{{"A", "B"}, {"C", "D"}, {"A", "C"}} {
			h.schedule(t, pair[0], pair[1], 10*time.Second)
		}
		h.clock.Advance(time.Minute)
		h.tick(t)

		starting := h.events.Events(domain.EventMatchStarting)
		require.Len(t, starting, 3)
		for i := 1; i < len(starting); i++ {
			assert.Less(t, starting[i-1].MatchID, starting[i].MatchID)
		}
	})
}

func TestProcessor_EvaluateUsesGivenTime(t *testing.T) {
	h := setup(t)
	m := h.schedule(t, "A", "B", time.Hour)

	report, err := h.p.Evaluate(context.Background(), m.ScheduledAt)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Started)
	assert.Equal(t, m.ScheduledAt, report.At)
	assert.Equal(t, domain.StatusActive, h.get(t, m.ID).Status)
}
