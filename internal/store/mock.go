package store

import (
	"context"
	"sync"
)

// MockStore is a Store spy for testing. Calls fall through to an in-memory
// store unless the matching Func hook is set.
// It is safe for concurrent use.
type MockStore struct {
	mu      sync.Mutex
	backend Store

	// Spies for method calls
	GetFunc    func(ctx context.Context, collection Collection, id string) (Record, error)
	PutFunc    func(ctx context.Context, collection Collection, id string, value any) error
	PutAllFunc func(ctx context.Context, collection Collection, entries []Entry) error
	ListFunc   func(ctx context.Context, collection Collection) ([]Record, error)

	// Call records
	GetCalls    []GetCall
	PutCalls    []PutCall
	PutAllCalls []PutAllCall
	ListCalls   []Collection
}

// GetCall holds the arguments for a call to Get.
type GetCall struct {
	Collection Collection
	ID         string
}

// PutCall holds the arguments for a call to Put.
type PutCall struct {
	Collection Collection
	ID         string
	Value      any
}

// PutAllCall holds the arguments for a call to PutAll.
type PutAllCall struct {
	Collection Collection
	Entries    []Entry
}

// NewMock creates a new mock instance backed by an empty in-memory store.
func NewMock() *MockStore {
	return &MockStore{backend: NewMemory()}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = nil
	m.PutCalls = nil
	m.PutAllCalls = nil
	m.ListCalls = nil
}

func (m *MockStore) Get(ctx context.Context, collection Collection, id string) (Record, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, GetCall{Collection: collection, ID: id})
	fn := m.GetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, collection, id)
	}
	return m.backend.Get(ctx, collection, id)
}

func (m *MockStore) Put(ctx context.Context, collection Collection, id string, value any) error {
	m.mu.Lock()
	m.PutCalls = append(m.PutCalls, PutCall{Collection: collection, ID: id, Value: value})
	fn := m.PutFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, collection, id, value)
	}
	return m.backend.Put(ctx, collection, id, value)
}

func (m *MockStore) PutAll(ctx context.Context, collection Collection, entries []Entry) error {
	m.mu.Lock()
	m.PutAllCalls = append(m.PutAllCalls, PutAllCall{Collection: collection, Entries: entries})
	fn := m.PutAllFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, collection, entries)
	}
	return m.backend.PutAll(ctx, collection, entries)
}

func (m *MockStore) List(ctx context.Context, collection Collection) ([]Record, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, collection)
	fn := m.ListFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, collection)
	}
	return m.backend.List(ctx, collection)
}

// Backend exposes the underlying in-memory store so tests can seed or inspect
// records without going through the spies.
func (m *MockStore) Backend() Store {
	return m.backend
}
