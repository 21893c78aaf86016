package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Startup pragmas. WAL keeps readers off the writer's lock; the busy
// timeout rides out checkpoint stalls instead of surfacing SQLITE_BUSY.
var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

const schemaPumpProfile = `
CREATE TABLE IF NOT EXISTS pump_profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    active_cycles INTEGER NOT NULL,
    overflows INTEGER NOT NULL,
    cycle_time_ms INTEGER NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaPumpEvents = `
CREATE TABLE IF NOT EXISTS pump_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

// InitDB opens (creating if needed) the SQLite file at path, applies the
// startup pragmas and makes sure the schema exists.
func InitDB(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite serializes writers; a single connection avoids lock churn.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	if err := ensureSchema(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return sqlDB, nil
}

func ensureSchema(sqlDB *sql.DB) error {
	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	// Rollback is a no-op once the commit below lands.
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{schemaPumpProfile, schemaPumpEvents, schemaUsers} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
