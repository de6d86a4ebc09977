package duel

import (
	"testing"
	"time"

	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func scheduledMatch(t *testing.T, at time.Time) *domain.Match {
	t.Helper()
	m, err := NewMatch("m1", "A", "B", at, t0)
	require.NoError(t, err)
	return m
}

func TestNewMatch(t *testing.T) {
	t.Run("starts scheduled without a reminder", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		assert.Equal(t, domain.StatusScheduled, m.Status)
		assert.False(t, m.ReminderSent)
		assert.Equal(t, t0, m.CreatedAt)
		assert.Nil(t, m.Result)
	})

	t.Run("same player on both sides", func(t *testing.T) {
		_, err := NewMatch("m1", "A", "A", t0.Add(time.Hour), t0)
		assert.ErrorIs(t, err, domain.ErrSamePlayer)
	})

	t.Run("start time must be strictly in the future", func(t *testing.T) {
		_, err := NewMatch("m1", "A", "B", t0, t0)
		assert.ErrorIs(t, err, domain.ErrInvalidTime)
	})
}

func TestReminderDue(t *testing.T) {
	at := t0.Add(time.Hour)
	cases := []struct {
		name   string
		before time.Duration
		want   bool
	}{
		{"window opens at 5m30s", 5*time.Minute + 30*time.Second, true},
		{"just before the window", 5*time.Minute + 31*time.Second, false},
		{"exactly five minutes", 5 * time.Minute, true},
		{"window closes at 4m30s", 4*time.Minute + 30*time.Second, true},
		{"just after the window", 4*time.Minute + 29*time.Second, false},
		{"after the start", -time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := scheduledMatch(t, at)
			assert.Equal(t, tc.want, ReminderDue(m, at.Add(-tc.before)))
		})
	}

	t.Run("not due once sent", func(t *testing.T) {
		m := scheduledMatch(t, at)
		require.NoError(t, MarkReminderSent(m))
		assert.False(t, ReminderDue(m, at.Add(-5*time.Minute)))
	})
}

func TestStartDue(t *testing.T) {
	at := t0.Add(time.Hour)
	m := scheduledMatch(t, at)

	assert.False(t, StartDue(m, at.Add(-time.Nanosecond)))
	assert.True(t, StartDue(m, at))
	assert.True(t, StartDue(m, at.Add(time.Hour)))

	require.NoError(t, Activate(m, at))
	assert.False(t, StartDue(m, at.Add(time.Hour)), "active match is not started again")
}

func TestActivate(t *testing.T) {
	at := t0.Add(time.Hour)
	m := scheduledMatch(t, at)

	require.NoError(t, Activate(m, at))
	assert.Equal(t, domain.StatusActive, m.Status)
	require.NotNil(t, m.StartedAt)
	assert.Equal(t, at, *m.StartedAt)

	assert.Error(t, Activate(m, at), "active cannot be activated twice")
}

func TestMarkReminderSent_OnlyOnce(t *testing.T) {
	m := scheduledMatch(t, t0.Add(time.Hour))

	require.NoError(t, MarkReminderSent(m))
	assert.True(t, m.ReminderSent)
	assert.Error(t, MarkReminderSent(m))
	assert.True(t, m.ReminderSent)
}

func TestComplete(t *testing.T) {
	now := t0.Add(2 * time.Hour)

	t.Run("from scheduled or active", func(t *testing.T) {
		for _, activate := range []bool{false, true} {
			m := scheduledMatch(t, t0.Add(time.Hour))
			if activate {
				require.NoError(t, Activate(m, t0.Add(time.Hour)))
			}
			err := Complete(m, domain.Outcome{WinnerID: "B", LoserID: "A", WinnerKills: 3, LoserKills: 1}, now)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCompleted, m.Status)
			require.NotNil(t, m.Result)
			assert.Equal(t, "B", m.Result.WinnerID)
			assert.Equal(t, now, *m.CompletedAt)
		}
	})

	t.Run("winner outside the match leaves it unchanged", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		err := Complete(m, domain.Outcome{WinnerID: "C", LoserID: "A"}, now)
		assert.ErrorIs(t, err, domain.ErrNotParticipant)
		assert.Equal(t, domain.StatusScheduled, m.Status)
		assert.Nil(t, m.Result)
	})

	t.Run("winner and loser must differ", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		err := Complete(m, domain.Outcome{WinnerID: "A", LoserID: "A"}, now)
		assert.ErrorIs(t, err, domain.ErrNotParticipant)
	})

	t.Run("negative kills", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		err := Complete(m, domain.Outcome{WinnerID: "A", LoserID: "B", LoserKills: -2}, now)
		assert.ErrorIs(t, err, domain.ErrInvalidStats)
	})

	t.Run("terminal matches are immutable", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		require.NoError(t, Cancel(m, "A", false, now))
		snapshot := *m

		err := Complete(m, domain.Outcome{WinnerID: "A", LoserID: "B"}, now)
		assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
		assert.ErrorIs(t, Activate(m, now), domain.ErrAlreadyTerminal)
		assert.ErrorIs(t, MarkReminderSent(m), domain.ErrAlreadyTerminal)
		assert.ErrorIs(t, Cancel(m, "A", true, now), domain.ErrAlreadyTerminal)
		assert.Equal(t, snapshot, *m)
	})
}

func TestCancel(t *testing.T) {
	now := t0.Add(time.Minute)

	t.Run("participant", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		require.NoError(t, Cancel(m, "B", false, now))
		assert.Equal(t, domain.StatusCancelled, m.Status)
		assert.Equal(t, "B", m.CancelledBy)
		assert.Equal(t, now, *m.CancelledAt)
	})

	t.Run("administrator", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		require.NoError(t, Cancel(m, "admin", true, now))
		assert.Equal(t, domain.StatusCancelled, m.Status)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		assert.ErrorIs(t, Cancel(m, "C", false, now), domain.ErrForbidden)
		assert.Equal(t, domain.StatusScheduled, m.Status)
	})

	t.Run("completed match cannot be cancelled", func(t *testing.T) {
		m := scheduledMatch(t, t0.Add(time.Hour))
		require.NoError(t, Complete(m, domain.Outcome{WinnerID: "A", LoserID: "B"}, now))
		assert.ErrorIs(t, Cancel(m, "A", false, now), domain.ErrAlreadyTerminal)
	})
}
