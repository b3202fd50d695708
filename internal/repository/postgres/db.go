package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// The engine saves at most one position per generated move, so a small
// pool is plenty.
const (
	maxOpenConns    = 4
	maxIdleConns    = 2
	connMaxIdleTime = 5 * time.Minute
)

// Connect opens a pool to databaseURL and checks that the experience table
// exists, so a missing migration fails at startup instead of on the first save.
func Connect(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	var table sql.NullString
	if err := db.QueryRowContext(ctx, `SELECT to_regclass('experience')::text`).Scan(&table); err != nil {
		db.Close()
		return nil, fmt.Errorf("check experience table: %w", err)
	}
	if !table.Valid {
		db.Close()
		return nil, fmt.Errorf("experience table missing: apply migrations/001_experience.up.sql")
	}
	return db, nil
}
