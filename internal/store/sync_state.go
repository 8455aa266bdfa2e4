package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KeyLastSuccessAt is the sync_state key holding the last successful ingestion sync
const KeyLastSuccessAt = "last_success_at"

// GetSyncState retrieves a sync state value by key.
// Returns empty string if key doesn't exist.
func (db *DB) GetSyncState(ctx context.Context, userID int64, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `
		SELECT value FROM sync_state WHERE user_id = ? AND key = ?
	`, userID, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSyncState sets a sync state value
func (db *DB) SetSyncState(ctx context.Context, userID int64, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_state (user_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, userID, key, value)
	return err
}

// LastSuccessAt returns the watermark of the user's last successful sync, or nil if never synced
func (db *DB) LastSuccessAt(ctx context.Context, userID int64) (*time.Time, error) {
	value, err := db.GetSyncState(ctx, userID, KeyLastSuccessAt)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}

	t, err := parseTimestamp(value)
	if err != nil {
		return nil, fmt.Errorf("parsing %s %q: %w", KeyLastSuccessAt, value, err)
	}
	return &t, nil
}

// SetLastSyncAt records a successful sync
func (db *DB) SetLastSyncAt(ctx context.Context, userID int64, at time.Time) error {
	return db.SetSyncState(ctx, userID, KeyLastSuccessAt, formatTimestamp(at))
}
