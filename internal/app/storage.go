// Package app — storage.go открывает хранилище по DB_DRIVER и отдаёт
// репозитории фич поверх него.
package app

import (
	"context"
	"fmt"

	"serotonyl.ru/brain-trainer/internal/config"
	"serotonyl.ru/brain-trainer/internal/db/postgres"
	"serotonyl.ru/brain-trainer/internal/db/sqlite"
	"serotonyl.ru/brain-trainer/internal/features/admin"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
	"serotonyl.ru/brain-trainer/internal/features/submissions"
)

// Storage — репозитории всех фич поверх одного хранилища.
type Storage struct {
	Driver      string
	Submissions submissions.Store
	Profiles    profiles.Store
	Scores      scores.Reader
	Stats       admin.StatsReader
	Ping        func(ctx context.Context) error
	Close       func()
}

// OpenStorage подключается к хранилищу и применяет миграции.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return &Storage{
			Driver:      cfg.DBDriver,
			Submissions: submissions.NewPostgresStore(pool),
			Profiles:    profiles.NewRepository(pool),
			Scores:      scores.NewRepository(pool),
			Stats:       admin.NewRepository(pool),
			Ping:        pool.Ping,
			Close:       pool.Close,
		}, nil

	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)

	default:
		return nil, fmt.Errorf("неизвестный DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenSQLite открывает локальную базу SQLite. Используется и сервером,
// и офлайн-режимом клиента.
func OpenSQLite(ctx context.Context, path string) (*Storage, error) {
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Storage{
		Driver:      config.DriverSQLite,
		Submissions: submissions.NewSQLiteStore(db),
		Profiles:    profiles.NewSQLiteRepository(db),
		Scores:      scores.NewSQLiteRepository(db),
		Stats:       admin.NewSQLiteRepository(db),
		Ping:        db.PingContext,
		Close:       func() { _ = db.Close() },
	}, nil
}
