// Package sqlite implements the synonym record store on a local SQLite file.
// It mirrors the PostgreSQL adapter so the service cannot tell them apart.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/synonym-backend/migrations"
)

// Connect opens (creating if needed) the database at path without touching
// its schema. A single connection is used: SQLite serialises writers anyway,
// and it keeps ":memory:" databases coherent.
func Connect(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// Open connects to the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := Connect(ctx, path)
	if err != nil {
		return nil, err
	}

	applied, err := migrations.Up(ctx, db, goose.DialectSQLite3)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite store ready", slog.String("path", path), slog.Int("migrations_applied", applied))
	return db, nil
}
