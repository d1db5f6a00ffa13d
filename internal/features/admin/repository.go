// Package admin — repository.go считает строки для статистики.
package admin

import (
	"context"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/db/postgres"
	"serotonyl.ru/brain-trainer/internal/db/sqlite"
)

const statsQuery = `
	SELECT
		(SELECT COUNT(*) FROM profiles),
		(SELECT COUNT(*) FROM scores),
		(SELECT COUNT(*) FROM runs),
		(SELECT COUNT(*) FROM profiles WHERE streak_count > 0)
`

// Repository читает статистику из PostgreSQL.
type Repository struct {
	db postgres.DBTX
}

// NewRepository создаёт репозиторий статистики.
func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

// Stats возвращает сводку по таблицам.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := r.db.QueryRow(ctx, statsQuery).Scan(&s.Profiles, &s.Scores, &s.Runs, &s.ActiveStreaks); err != nil {
		return nil, common.StorageError("чтение статистики", err)
	}
	return &s, nil
}

// SQLiteRepository читает статистику из SQLite.
type SQLiteRepository struct {
	db sqlite.DBTX
}

// NewSQLiteRepository создаёт репозиторий статистики для SQLite.
func NewSQLiteRepository(db sqlite.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Stats возвращает сводку по таблицам.
func (r *SQLiteRepository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := r.db.QueryRowContext(ctx, statsQuery).Scan(&s.Profiles, &s.Scores, &s.Runs, &s.ActiveStreaks); err != nil {
		return nil, common.StorageError("чтение статистики", err)
	}
	return &s, nil
}
