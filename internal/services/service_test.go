package services

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/require"

	"github.com/ddanilovs/chargekeeper/internal/repositories/metadata"
	"github.com/ddanilovs/chargekeeper/internal/repositories/schedules"
	"github.com/ddanilovs/chargekeeper/internal/repositories/users"
)

// testRepos bundles real repositories over an in-memory database so service
// tests exercise the full path down to SQL.
type testRepos struct {
	db        *sql.DB
	users     *users.SQLiteRepository
	schedules *schedules.SQLiteRepository
	metadata  *metadata.SQLiteRepository
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE schedules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type TEXT NOT NULL CHECK (type IN ('time', 'charge', 'mileage')),
			name TEXT NOT NULL,
			days TEXT NOT NULL,
			start_time TEXT,
			end_time TEXT,
			ready_by_time TEXT,
			desired_charge_level INTEGER,
			desired_mileage INTEGER,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);
	`)
	require.NoError(t, err)

	return &testRepos{
		db:        db,
		users:     users.NewSQLiteRepository(db),
		schedules: schedules.NewSQLiteRepository(db),
		metadata:  metadata.NewSQLiteRepository(db),
	}
}
