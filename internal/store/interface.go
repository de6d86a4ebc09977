package store

import "context"

// Store is a key-indexed record store grouped into collections. There is no
// partial update: callers read a whole record, modify it and Put it back, so
// two concurrent writers to the same record can lose an update. The engine
// relies on a single writer per process.
type Store interface {
	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, collection Collection, id string) (Record, error)
	// Put fully overwrites the record stored under id.
	Put(ctx context.Context, collection Collection, id string, value any) error
	// PutAll overwrites several records of one collection atomically: every
	// entry is written or none is.
	PutAll(ctx context.Context, collection Collection, entries []Entry) error
	// List returns every record in the collection ordered by id.
	List(ctx context.Context, collection Collection) ([]Record, error)
}
