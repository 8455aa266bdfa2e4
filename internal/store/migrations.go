package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activities (written by the ingestion subsystem)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			start_time TEXT NOT NULL,
			distance_meters REAL NOT NULL,
			duration_seconds INTEGER NOT NULL,
			avg_pace_seconds REAL,
			average_heartrate REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_user_start ON activities(user_id, start_time)`,

		// Nightly sleep summaries
		`CREATE TABLE IF NOT EXISTS sleep_records (
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			duration_minutes REAL NOT NULL,
			score REAL,
			PRIMARY KEY (user_id, date)
		)`,

		// Daily resting heart rate
		`CREATE TABLE IF NOT EXISTS resting_heart_rates (
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			bpm REAL NOT NULL,
			PRIMARY KEY (user_id, date)
		)`,

		// Sync State (per-user key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			user_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, key)
		)`,

		// Cached training snapshots, one per user/window/schema version
		`CREATE TABLE IF NOT EXISTS training_snapshots (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			window_start TEXT NOT NULL,
			window_end TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			generated_at TEXT NOT NULL,
			source_last_sync_at TEXT,
			payload TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, window_start, window_end, schema_version)
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
