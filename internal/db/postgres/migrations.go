// Package postgres — migrations.go применяет встроенные SQL-миграции.
// Каждая миграция выполняется в своей транзакции и записывается
// в schema_migrations, поэтому повторный запуск безопасен.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// migration — одна версия схемы.
type migration struct {
	version int
	sql     string
}

// migrations — все миграции по порядку.
var migrations = []migration{
	{1, migration001Profiles},
	{2, migration002Scores},
	{3, migration003Runs},
}

// Migrate создаёт таблицу версий и применяет все недостающие миграции.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// Создаём таблицу для отслеживания миграций, если её нет
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	for _, m := range migrations {
		applied, err := execMigration(ctx, pool, m.version, m.sql)
		if err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		if applied {
			log.Infof("Миграция %d применена", m.version)
		}
	}
	return nil
}

// execMigration выполняет один SQL-запрос миграции в транзакции.
// Если запрос упадёт — транзакция откатится автоматически.
// Возвращает true, если миграция применена сейчас.
func execMigration(ctx context.Context, pool *pgxpool.Pool, version int, sql string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	// Откатываем транзакцию, если что-то пошло не так
	defer tx.Rollback(ctx)

	// Два экземпляра сервера могут стартовать одновременно
	if _, err := tx.Exec(ctx, "LOCK TABLE schema_migrations IN EXCLUSIVE MODE"); err != nil {
		return false, fmt.Errorf("ошибка блокировки таблицы миграций: %w", err)
	}

	// Проверяем, не была ли эта миграция уже применена
	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return false, fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}

	return true, tx.Commit(ctx)
}

var migration001Profiles = `
CREATE TABLE IF NOT EXISTS profiles (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(24) UNIQUE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_practice_date DATE,
    streak_count INTEGER NOT NULL DEFAULT 0 CHECK (streak_count >= 0),
    best_streak INTEGER NOT NULL DEFAULT 0 CHECK (best_streak >= streak_count),
    last_run_at TIMESTAMPTZ,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_profiles_last_practice ON profiles(last_practice_date);
`

var migration002Scores = `
CREATE TABLE IF NOT EXISTS scores (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(24) NOT NULL,
    score BIGINT NOT NULL CHECK (score >= 0),
    mode VARCHAR(24) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_mode_rank ON scores(mode, score DESC, created_at ASC);
`

var migration003Runs = `
CREATE TABLE IF NOT EXISTS runs (
    id BIGSERIAL PRIMARY KEY,
    profile_id BIGINT NOT NULL REFERENCES profiles(id),
    score BIGINT NOT NULL CHECK (score >= 0),
    mode VARCHAR(24) NOT NULL,
    duration_sec INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_profile_id ON runs(profile_id);
`
