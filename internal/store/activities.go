package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const activityColumns = `id, user_id, name, type, start_time, distance_meters,
	duration_seconds, avg_pace_seconds, average_heartrate`

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(ctx context.Context, a *Activity) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO activities (
			id, user_id, name, type, start_time, distance_meters,
			duration_seconds, avg_pace_seconds, average_heartrate, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			type = excluded.type,
			start_time = excluded.start_time,
			distance_meters = excluded.distance_meters,
			duration_seconds = excluded.duration_seconds,
			avg_pace_seconds = excluded.avg_pace_seconds,
			average_heartrate = excluded.average_heartrate,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.UserID, a.Name, a.Type, formatStartTime(a.StartTime), a.DistanceMeters,
		a.DurationSeconds, a.AvgPaceSeconds, a.AverageHeartrate,
	)
	return err
}

// QueryActivities returns a user's activities starting in [start, end),
// ordered by start time descending
func (db *DB) QueryActivities(ctx context.Context, userID int64, start, end time.Time) ([]Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE user_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time DESC
	`, userID, formatStartTime(start), formatStartTime(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	return activities, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*Activity, error) {
	var a Activity
	var startTime string
	var avgPace, avgHR sql.NullFloat64

	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &startTime, &a.DistanceMeters,
		&a.DurationSeconds, &avgPace, &avgHR,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime, err = parseTimestamp(startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time %q: %w", startTime, err)
	}
	a.AvgPaceSeconds = nullFloatPtr(avgPace)
	a.AverageHeartrate = nullFloatPtr(avgHR)

	return &a, nil
}
