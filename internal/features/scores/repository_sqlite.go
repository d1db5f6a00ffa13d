package scores

import (
	"context"
	"fmt"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/db/sqlite"
)

// SQLiteRepository — журнал счётов поверх SQLite.
type SQLiteRepository struct {
	db sqlite.DBTX
}

// NewSQLiteRepository создаёт журнал для SQLite.
func NewSQLiteRepository(db sqlite.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// AppendScore добавляет строку в таблицу лидеров.
func (r *SQLiteRepository) AppendScore(ctx context.Context, s *Score) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO scores (name, score, mode, created_at)
		VALUES (?, ?, ?, ?)
	`, s.Name, s.Score, s.Mode, sqlite.FormatTime(s.CreatedAt))
	if err != nil {
		return 0, common.StorageError("запись счёта", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, common.StorageError("запись счёта", err)
	}
	return id, nil
}

// AppendRun добавляет забег в историю профиля.
func (r *SQLiteRepository) AppendRun(ctx context.Context, run *Run) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (profile_id, score, mode, duration_sec, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ProfileID, run.Score, run.Mode, run.DurationSec, sqlite.FormatTime(run.CreatedAt))
	if err != nil {
		return 0, common.StorageError("запись забега", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, common.StorageError("запись забега", err)
	}
	return id, nil
}

// TopScores возвращает лучшие счета режима.
func (r *SQLiteRepository) TopScores(ctx context.Context, mode string, limit int) ([]Score, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, score, mode, created_at
		FROM scores
		WHERE mode = ?
		ORDER BY score DESC, created_at ASC, id ASC
		LIMIT ?
	`, mode, limit)
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("чтение таблицы лидеров (mode=%s)", mode), err)
	}
	defer rows.Close()

	result := make([]Score, 0, limit)
	for rows.Next() {
		var (
			s         Score
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Score, &s.Mode, &createdAt); err != nil {
			return nil, common.StorageError("чтение строки таблицы лидеров", err)
		}
		if s.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
			return nil, common.StorageError("чтение строки таблицы лидеров", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StorageError("чтение таблицы лидеров", err)
	}
	return result, nil
}
