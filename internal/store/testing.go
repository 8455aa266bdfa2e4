package store

import (
	"testing"
)

// NewTestDB opens a migrated in-memory database that is closed when the test ends.
// This is only intended for use in tests.
func NewTestDB(tb testing.TB) *DB {
	tb.Helper()

	db, err := Open(MemoryPath)
	if err != nil {
		tb.Fatalf("Failed to open test database: %v", err)
	}

	tb.Cleanup(func() {
		db.Close()
	})

	return db
}
