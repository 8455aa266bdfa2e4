package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a key
var ErrSnapshotNotFound = errors.New("snapshot not found")

const snapshotColumns = `id, user_id, window_start, window_end, schema_version,
	generated_at, source_last_sync_at, payload, created_at, updated_at`

// GetSnapshot retrieves the snapshot for an exact key
func (db *DB) GetSnapshot(ctx context.Context, key SnapshotKey) (*Snapshot, error) {
	return getSnapshot(ctx, db.DB, key)
}

// UpsertSnapshot inserts a snapshot or updates the existing row with the same key
// in place, returning the stored row. A new row gets a fresh ID; an existing row
// keeps its ID and created_at.
func (db *DB) UpsertSnapshot(ctx context.Context, s *Snapshot) (*Snapshot, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO training_snapshots (
			id, user_id, window_start, window_end, schema_version,
			generated_at, source_last_sync_at, payload, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, window_start, window_end, schema_version) DO UPDATE SET
			generated_at = excluded.generated_at,
			source_last_sync_at = excluded.source_last_sync_at,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`,
		id, s.UserID, formatDate(s.WindowStart), formatDate(s.WindowEnd), s.SchemaVersion,
		formatTimestamp(s.GeneratedAt), timestampPtrToNull(s.SourceLastSyncAt), string(s.Payload),
	)
	if err != nil {
		return nil, fmt.Errorf("upserting snapshot: %w", err)
	}

	stored, err := getSnapshot(ctx, tx, s.Key())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return stored, nil
}

// CountSnapshots returns the number of cached snapshots for a user
func (db *DB) CountSnapshots(ctx context.Context, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM training_snapshots WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getSnapshot(ctx context.Context, q queryRower, key SnapshotKey) (*Snapshot, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM training_snapshots
		WHERE user_id = ? AND window_start = ? AND window_end = ? AND schema_version = ?
	`, key.UserID, formatDate(key.WindowStart), formatDate(key.WindowEnd), key.SchemaVersion)

	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	return s, err
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var s Snapshot
	var windowStart, windowEnd, generatedAt, payload, createdAt, updatedAt string
	var lastSync sql.NullString

	err := row.Scan(
		&s.ID, &s.UserID, &windowStart, &windowEnd, &s.SchemaVersion,
		&generatedAt, &lastSync, &payload, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.WindowStart, err = parseDate(windowStart); err != nil {
		return nil, fmt.Errorf("parsing window_start %q: %w", windowStart, err)
	}
	if s.WindowEnd, err = parseDate(windowEnd); err != nil {
		return nil, fmt.Errorf("parsing window_end %q: %w", windowEnd, err)
	}
	if s.GeneratedAt, err = parseTimestamp(generatedAt); err != nil {
		return nil, fmt.Errorf("parsing generated_at %q: %w", generatedAt, err)
	}
	if s.SourceLastSyncAt, err = nullTimestampPtr(lastSync); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseAuditTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if s.UpdatedAt, err = parseAuditTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}
	s.Payload = []byte(payload)

	return &s, nil
}
