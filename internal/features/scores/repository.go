// Package scores — repository.go пишет счета и забеги в PostgreSQL и читает таблицу лидеров.
package scores

import (
	"context"
	"fmt"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/db/postgres"
)

// Repository работает с таблицами scores и runs через пул или транзакцию.
type Repository struct {
	db postgres.DBTX
}

// NewRepository создаёт репозиторий журнала.
func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

// AppendScore добавляет строку в таблицу лидеров и возвращает её ID.
func (r *Repository) AppendScore(ctx context.Context, s *Score) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO scores (name, score, mode, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, s.Name, s.Score, s.Mode, s.CreatedAt).Scan(&id)
	if err != nil {
		return 0, common.StorageError("запись счёта", err)
	}
	return id, nil
}

// AppendRun добавляет забег в историю профиля и возвращает его ID.
func (r *Repository) AppendRun(ctx context.Context, run *Run) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO runs (profile_id, score, mode, duration_sec, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, run.ProfileID, run.Score, run.Mode, run.DurationSec, run.CreatedAt).Scan(&id)
	if err != nil {
		return 0, common.StorageError("запись забега", err)
	}
	return id, nil
}

// TopScores возвращает лучшие счета режима.
// При равных очках выше тот, кто набрал их раньше.
func (r *Repository) TopScores(ctx context.Context, mode string, limit int) ([]Score, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, score, mode, created_at
		FROM scores
		WHERE mode = $1
		ORDER BY score DESC, created_at ASC, id ASC
		LIMIT $2
	`, mode, limit)
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("чтение таблицы лидеров (mode=%s)", mode), err)
	}
	defer rows.Close()

	result := make([]Score, 0, limit)
	for rows.Next() {
		var s Score
		if err := rows.Scan(&s.ID, &s.Name, &s.Score, &s.Mode, &s.CreatedAt); err != nil {
			return nil, common.StorageError("чтение строки таблицы лидеров", err)
		}
		s.CreatedAt = s.CreatedAt.UTC()
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StorageError("чтение таблицы лидеров", err)
	}
	return result, nil
}
