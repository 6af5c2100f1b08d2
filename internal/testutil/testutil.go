// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared helpers for database-backed tests.
package testutil

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"raktar/internal/store"
)

// TestDB creates a migrated SQLite database in a per-test temp directory.
// The database is closed automatically when the test finishes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(path)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

// TestMemoryDB creates a migrated in-memory SQLite database using the cgo
// driver. Useful for tests that do not need on-disk durability.
func TestMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	// A named database keeps tests isolated from each other while the shared
	// cache lets every connection in the pool see the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate in-memory database: %v", err)
	}

	return db
}

// TestLogger returns a logger that discards all output, keeping test runs
// quiet unless a handler is swapped in.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
