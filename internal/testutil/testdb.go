package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory plan store that is closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening in-memory plan store")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the SQLite unit of work used by the services.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
