package store

import (
	"encoding/json"
	"time"
)

// Activity represents a recorded workout summary
type Activity struct {
	ID               int64     `db:"id"`
	UserID           int64     `db:"user_id"`
	Name             string    `db:"name"`
	Type             string    `db:"type"`
	StartTime        time.Time `db:"start_time"`
	DistanceMeters   float64   `db:"distance_meters"`
	DurationSeconds  int       `db:"duration_seconds"`
	AvgPaceSeconds   *float64  `db:"avg_pace_seconds"`  // seconds per km, nullable
	AverageHeartrate *float64  `db:"average_heartrate"` // nullable
}

// SleepRecord is one night of sleep
type SleepRecord struct {
	UserID          int64     `db:"user_id"`
	Date            time.Time `db:"date"`
	DurationMinutes float64   `db:"duration_minutes"`
	Score           *float64  `db:"score"` // nullable
}

// SleepAverages holds averaged sleep values over a date range; nil when no data
type SleepAverages struct {
	DurationMinutes *float64
	Score           *float64
}

// RestingHeartRate is a daily resting heart rate reading
type RestingHeartRate struct {
	UserID int64     `db:"user_id"`
	Date   time.Time `db:"date"`
	BPM    float64   `db:"bpm"`
}

// SnapshotKey identifies a cached training snapshot
type SnapshotKey struct {
	UserID        int64
	WindowStart   time.Time // date
	WindowEnd     time.Time // date
	SchemaVersion int
}

// Snapshot is a cached training summary for one user and window
type Snapshot struct {
	ID               string          `db:"id"`
	UserID           int64           `db:"user_id"`
	WindowStart      time.Time       `db:"window_start"`
	WindowEnd        time.Time       `db:"window_end"`
	SchemaVersion    int             `db:"schema_version"`
	GeneratedAt      time.Time       `db:"generated_at"`
	SourceLastSyncAt *time.Time      `db:"source_last_sync_at"` // nullable
	Payload          json.RawMessage `db:"payload"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// Key returns the unique key of the snapshot
func (s *Snapshot) Key() SnapshotKey {
	return SnapshotKey{
		UserID:        s.UserID,
		WindowStart:   s.WindowStart,
		WindowEnd:     s.WindowEnd,
		SchemaVersion: s.SchemaVersion,
	}
}
