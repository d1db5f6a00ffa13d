// Package sqlite открывает локальную базу SQLite (modernc.org/sqlite, без cgo).
// Используется для локального запуска без PostgreSQL и для офлайн-режима клиента.
//
// SQLite — движок с одним писателем, поэтому пул ограничен одним соединением:
// транзакции выполняются строго по очереди.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	_ "modernc.org/sqlite" // SQLite driver.
)

// DBTX — то, что умеют и *sql.DB, и *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open открывает (или создаёт) файл базы и применяет миграции.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать каталог базы: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка миграций SQLite: %w", err)
	}

	log.WithField("path", path).Info("База SQLite готова")
	return db, nil
}

// migrate создаёт таблицы, если их нет.
func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			last_practice_date TEXT,
			streak_count INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			last_run_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			mode TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			mode TEXT NOT NULL,
			duration_sec INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY(profile_id) REFERENCES profiles(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_mode_rank ON scores(mode, score DESC, created_at ASC);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_profile_id ON runs(profile_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
