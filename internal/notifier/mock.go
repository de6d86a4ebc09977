package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/duel-lords/internal/domain"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	NotifyParticipantFunc func(ctx context.Context, playerID string, ev domain.Event) error
	NotifyChannelFunc     func(ctx context.Context, channelRef string, ev domain.Event) error

	// Call records
	NotifyParticipantCalls []NotifyCall
	NotifyChannelCalls     []NotifyCall
}

// NotifyCall holds the arguments for one notification.
type NotifyCall struct {
	Target string
	Event  domain.Event
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyParticipantCalls = nil
	m.NotifyChannelCalls = nil
}

func (m *Mock) NotifyParticipant(ctx context.Context, playerID string, ev domain.Event) error {
	m.mu.Lock()
	m.NotifyParticipantCalls = append(m.NotifyParticipantCalls, NotifyCall{Target: playerID, Event: ev})
	fn := m.NotifyParticipantFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, playerID, ev)
	}
	return nil
}

func (m *Mock) NotifyChannel(ctx context.Context, channelRef string, ev domain.Event) error {
	m.mu.Lock()
	m.NotifyChannelCalls = append(m.NotifyChannelCalls, NotifyCall{Target: channelRef, Event: ev})
	fn := m.NotifyChannelFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, channelRef, ev)
	}
	return nil
}

// MockDispatcher records dispatched events.
// It is safe for concurrent use.
type MockDispatcher struct {
	mu sync.Mutex

	DispatchFunc func(ctx context.Context, ev domain.Event) Report

	DispatchCalls []domain.Event
}

var _ EventDispatcher = (*MockDispatcher)(nil)

// NewMockDispatcher creates a new mock dispatcher.
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) Dispatch(ctx context.Context, ev domain.Event) Report {
	m.mu.Lock()
	m.DispatchCalls = append(m.DispatchCalls, ev)
	fn := m.DispatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, ev)
	}
	return Report{Kind: ev.Kind, MatchID: ev.MatchID}
}

// Events returns the dispatched events of the given kind.
func (m *MockDispatcher) Events(kind domain.EventKind) []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, ev := range m.DispatchCalls {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Reset clears all call records.
func (m *MockDispatcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DispatchCalls = nil
}
