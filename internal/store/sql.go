package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-lords/internal/domain"
)

type sqlStore struct {
	db *sql.DB
}

// NewSQL creates a Store backed by the records table.
func NewSQL(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) Get(ctx context.Context, collection Collection, id string) (Record, error) {
	rec := Record{Collection: collection, ID: id}
	var updatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT data, updated_at FROM records WHERE collection = ? AND id = ?`,
		string(collection), id,
	).Scan(&rec.Data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	rec.UpdatedAt = time.Unix(0, updatedAt)
	return rec, nil
}

const upsertRecord = `
	INSERT INTO records (collection, id, version, data, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(collection, id) DO UPDATE SET
		version = excluded.version,
		data = excluded.data,
		updated_at = excluded.updated_at;
`

func (s *sqlStore) Put(ctx context.Context, collection Collection, id string, value any) error {
	data, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	_, err = s.db.ExecContext(ctx, upsertRecord, string(collection), id, domain.SchemaVersion, data, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	log.Debug("Stored record", "collection", collection, "id", id)
	return nil
}

func (s *sqlStore) PutAll(ctx context.Context, collection Collection, entries []Entry) error {
	encoded := make([][]byte, len(entries))
	for i, e := range entries {
		data, err := encode(e.Value)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", collection, e.ID, err)
		}
		encoded[i] = data
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put %s: %w", collection, err)
	}
	defer tx.Rollback()

	now := time.Now().UnixNano()
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, upsertRecord, string(collection), e.ID, domain.SchemaVersion, encoded[i], now); err != nil {
			return fmt.Errorf("put %s/%s: %w", collection, e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put %s: %w", collection, err)
	}
	log.Debug("Stored records", "collection", collection, "count", len(entries))
	return nil
}

func (s *sqlStore) List(ctx context.Context, collection Collection) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, updated_at FROM records WHERE collection = ? ORDER BY id`,
		string(collection),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec := Record{Collection: collection}
		var updatedAt int64
		if err := rows.Scan(&rec.ID, &rec.Data, &updatedAt); err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		rec.UpdatedAt = time.Unix(0, updatedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return records, nil
}
