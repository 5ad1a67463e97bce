// Package testutil provides an in-memory test database and fixture
// builders shared across package tests.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/mlefebvre/repopulse/internal/db"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed
// when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}
