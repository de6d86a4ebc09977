package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/mauv0809/duel-lords/internal/codec"
)

// Collection groups records of one kind.
type Collection string

const (
	Matches     Collection = "matches"
	Players     Collection = "players"
	Tournaments Collection = "tournaments"
)

// ErrNotFound is returned by Get when no record exists under the id.
var ErrNotFound = errors.New("record not found")

// Record is one stored value in its encoded form.
type Record struct {
	Collection Collection
	ID         string
	Data       []byte
	UpdatedAt  time.Time
}

// Decode unmarshals the record into v.
func (r Record) Decode(v any) error {
	if err := decode(r.Data, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", r.Collection, r.ID, err)
	}
	return nil
}

// Entry is one record written by PutAll.
type Entry struct {
	ID    string
	Value any
}

// Records are msgpack encoded reusing the json struct tags of the domain types.
func encode(v any) ([]byte, error) {
	return codec.Marshal(v)
}

func decode(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}
