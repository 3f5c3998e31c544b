// Package database wraps the SQLite connection used to persist triage
// reports locally.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/EeswaraReddy/L1agent/internal/types"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Config holds database configuration options.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
}

// DefaultConfig returns sensible defaults for the report store.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// Open creates a new database connection with default settings.
func Open(path string) (*DB, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig creates a new database connection. WAL mode and foreign
// keys are enabled for better concurrency.
func OpenWithConfig(cfg Config) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d",
		cfg.Path,
		int(cfg.BusyTimeout.Milliseconds()),
	)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.DB_OPEN_FAILED, "open database", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, types.WrapError(types.DB_OPEN_FAILED, "ping database", err)
	}

	return &DB{conn: conn, path: cfg.Path}, nil
}

// Conn exposes the underlying connection for DAOs.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Migrate applies the report store schema. Idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			incident_id TEXT NOT NULL,
			intent TEXT NOT NULL,
			decision TEXT NOT NULL,
			policy_score REAL NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_reports_incident ON reports(incident_id);
		CREATE INDEX IF NOT EXISTS idx_reports_decision ON reports(decision);
	`
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return types.WrapError(types.DB_MIGRATION_FAILED, "apply report schema", err)
	}
	return nil
}
