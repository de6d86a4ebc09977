package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryStore keeps records in process memory. It is used by tests and by the
// seeder's dry runs.
type memoryStore struct {
	mu      sync.RWMutex
	records map[Collection]map[string]Record
}

// NewMemory creates an empty in-memory Store.
func NewMemory() Store {
	return &memoryStore{records: make(map[Collection]map[string]Record)}
}

func (s *memoryStore) Get(ctx context.Context, collection Collection, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[collection][id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) Put(ctx context.Context, collection Collection, id string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[collection] == nil {
		s.records[collection] = make(map[string]Record)
	}
	s.records[collection][id] = Record{Collection: collection, ID: id, Data: data, UpdatedAt: time.Now()}
	return nil
}

func (s *memoryStore) PutAll(ctx context.Context, collection Collection, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := make([]Record, len(entries))
	now := time.Now()
	for i, e := range entries {
		data, err := encode(e.Value)
		if err != nil {
			return err
		}
		records[i] = Record{Collection: collection, ID: e.ID, Data: data, UpdatedAt: now}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[collection] == nil {
		s.records[collection] = make(map[string]Record)
	}
	for _, rec := range records {
		s.records[collection][rec.ID] = rec
	}
	return nil
}

func (s *memoryStore) List(ctx context.Context, collection Collection) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]Record, 0, len(s.records[collection]))
	for _, rec := range s.records[collection] {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
