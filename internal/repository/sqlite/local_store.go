// Package sqlite implements the device-local key/value store on an embedded
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"beanthere/internal/domain/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS local_storage (
    device_id  TEXT NOT NULL,
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
    PRIMARY KEY (device_id, key)
);
`

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; SQLite serializes writes anyway
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// LocalStore implements repositories.LocalStore.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore wraps an opened database.
func NewLocalStore(db *sql.DB) repositories.LocalStore {
	return &LocalStore{db: db}
}

func (s *LocalStore) Get(ctx context.Context, deviceID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE device_id = ? AND key = ?`,
		deviceID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *LocalStore) Set(ctx context.Context, deviceID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (device_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (device_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		deviceID, key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Delete(ctx context.Context, deviceID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM local_storage WHERE device_id = ? AND key = ?`,
		deviceID, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
