// Package profiles — repository.go выполняет операции с таблицей profiles в PostgreSQL.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/db/postgres"
)

// Repository работает с профилями через пул или транзакцию.
type Repository struct {
	db postgres.DBTX
}

// NewRepository создаёт репозиторий профилей.
func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

const profileColumns = `id, name, created_at, last_practice_date, streak_count, best_streak, last_run_at`

// Ensure создаёт профиль с нулевым стриком, если его ещё нет, и возвращает его ID.
// Вставка атомарная (ON CONFLICT DO NOTHING): при одновременных вызовах
// для одного имени строка появится ровно одна.
func (r *Repository) Ensure(ctx context.Context, name string, now time.Time) (int64, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (name, created_at, last_practice_date, streak_count, best_streak, last_run_at)
		VALUES ($1, $2, NULL, 0, 0, NULL)
		ON CONFLICT (name) DO NOTHING
	`, name, now)
	if err != nil {
		return 0, common.StorageError("создание профиля", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, `SELECT id FROM profiles WHERE name = $1`, name).Scan(&id); err != nil {
		return 0, common.StorageError("чтение ID профиля", err)
	}
	return id, nil
}

// GetByName возвращает профиль по имени.
// Если профиля нет — ошибка common.ErrNotFound.
func (r *Repository) GetByName(ctx context.Context, name string) (*Profile, error) {
	return r.get(ctx, `SELECT `+profileColumns+` FROM profiles WHERE name = $1`, name)
}

// GetForUpdate читает профиль и блокирует строку до конца транзакции.
// Вторая отправка счёта для того же имени будет ждать здесь, пока первая не закоммитится.
func (r *Repository) GetForUpdate(ctx context.Context, name string) (*Profile, error) {
	return r.get(ctx, `SELECT `+profileColumns+` FROM profiles WHERE name = $1 FOR UPDATE`, name)
}

func (r *Repository) get(ctx context.Context, query, name string) (*Profile, error) {
	var p Profile
	var lastPractice *time.Time
	err := r.db.QueryRow(ctx, query, name).Scan(
		&p.ID, &p.Name, &p.CreatedAt, &lastPractice,
		&p.StreakCount, &p.BestStreak, &p.LastRunAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("профиль не найден (name=%s): %w", name, common.ErrNotFound)
		}
		return nil, common.StorageError(fmt.Sprintf("чтение профиля (name=%s)", name), err)
	}
	p.LastPracticeDate = postgres.DateToDay(lastPractice)
	return &p, nil
}

// Update заменяет изменяемые поля профиля (стрик, дату, время забега) по имени.
func (r *Repository) Update(ctx context.Context, p *Profile) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET last_practice_date = $2, streak_count = $3, best_streak = $4,
		    last_run_at = $5, updated_at = NOW()
		WHERE name = $1
	`, p.Name, postgres.DayToDate(p.LastPracticeDate), p.StreakCount, p.BestStreak, p.LastRunAt)
	if err != nil {
		return common.StorageError("обновление профиля", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("обновление профиля (name=%s): %w", p.Name, common.ErrNotFound)
	}
	return nil
}

// ExpireStreaks обнуляет серии тех, кто не тренировался с дня before (не включая его).
// Рекорд и дата последней тренировки не трогаются.
func (r *Repository) ExpireStreaks(ctx context.Context, before string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET streak_count = 0, updated_at = NOW()
		WHERE streak_count > 0 AND last_practice_date < $1
	`, postgres.DayToDate(&before))
	if err != nil {
		return 0, common.StorageError("сброс просроченных стриков", err)
	}
	return tag.RowsAffected(), nil
}
