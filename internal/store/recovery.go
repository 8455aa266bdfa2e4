package store

import (
	"context"
	"database/sql"
	"time"
)

// AddSleepRecord inserts or replaces a night of sleep
func (db *DB) AddSleepRecord(ctx context.Context, r *SleepRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sleep_records (user_id, date, duration_minutes, score)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			duration_minutes = excluded.duration_minutes,
			score = excluded.score
	`, r.UserID, formatDate(r.Date), r.DurationMinutes, r.Score)
	return err
}

// AverageSleep averages sleep duration and score over the inclusive date range
func (db *DB) AverageSleep(ctx context.Context, userID int64, start, end time.Time) (SleepAverages, error) {
	var duration, score sql.NullFloat64
	err := db.QueryRowContext(ctx, `
		SELECT AVG(duration_minutes), AVG(score)
		FROM sleep_records
		WHERE user_id = ? AND date >= ? AND date <= ?
	`, userID, formatDate(start), formatDate(end)).Scan(&duration, &score)
	if err != nil {
		return SleepAverages{}, err
	}

	return SleepAverages{
		DurationMinutes: nullFloatPtr(duration),
		Score:           nullFloatPtr(score),
	}, nil
}

// UpsertRestingHR stores the resting heart rate for a day
func (db *DB) UpsertRestingHR(ctx context.Context, r *RestingHeartRate) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO resting_heart_rates (user_id, date, bpm)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET bpm = excluded.bpm
	`, r.UserID, formatDate(r.Date), r.BPM)
	return err
}

// AverageRestingHR averages resting heart rate over the inclusive date range.
// Returns nil when there are no readings.
func (db *DB) AverageRestingHR(ctx context.Context, userID int64, start, end time.Time) (*float64, error) {
	var avg sql.NullFloat64
	err := db.QueryRowContext(ctx, `
		SELECT AVG(bpm)
		FROM resting_heart_rates
		WHERE user_id = ? AND date >= ? AND date <= ?
	`, userID, formatDate(start), formatDate(end)).Scan(&avg)
	if err != nil {
		return nil, err
	}
	return nullFloatPtr(avg), nil
}
