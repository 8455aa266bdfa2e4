package store

import (
	"database/sql"
	"fmt"
	"time"
)

// sqliteTimestamp is the layout SQLite uses for CURRENT_TIMESTAMP
const sqliteTimestamp = "2006-01-02 15:04:05"

// formatStartTime uses fixed-width UTC seconds so string comparison matches time order
func formatStartTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// parseAuditTime parses created_at/updated_at defaults
func parseAuditTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimestamp, s)
	if err != nil {
		return time.Parse(time.RFC3339, s)
	}
	return t, nil
}

func nullFloatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullTimestampPtr(n sql.NullString) (*time.Time, error) {
	if !n.Valid {
		return nil, nil
	}
	t, err := parseTimestamp(n.String)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp %q: %w", n.String, err)
	}
	return &t, nil
}

func timestampPtrToNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}
