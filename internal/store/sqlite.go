package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLite persists rooms as one JSON blob per row. The game layer owns the
// blob format; this layer only moves bytes.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// LoadAll returns every stored room keyed by code.
func (s *SQLite) LoadAll(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, data FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	blobs := make(map[string][]byte)
	for rows.Next() {
		var code string
		var data []byte
		if err := rows.Scan(&code, &data); err != nil {
			return nil, fmt.Errorf("scanning room row: %w", err)
		}
		blobs[code] = data
	}
	return blobs, rows.Err()
}

// SaveAll upserts the given rooms in one transaction.
func (s *SQLite) SaveAll(ctx context.Context, rooms map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rooms (code, data, updated_at) VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(code) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for code, data := range rooms {
		if _, err := stmt.ExecContext(ctx, code, data); err != nil {
			return fmt.Errorf("upserting room %s: %w", code, err)
		}
	}
	return tx.Commit()
}

// Delete removes a room row. Deleting a missing row is not an error.
func (s *SQLite) Delete(ctx context.Context, code string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE code = ?`, code); err != nil {
		return fmt.Errorf("deleting room %s: %w", code, err)
	}
	return nil
}
