package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/db/sqlite"
)

// SQLiteRepository — те же операции с профилями поверх SQLite.
type SQLiteRepository struct {
	db sqlite.DBTX
}

// NewSQLiteRepository создаёт репозиторий профилей для SQLite.
func NewSQLiteRepository(db sqlite.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Ensure создаёт профиль, если его нет, и возвращает его ID.
func (r *SQLiteRepository) Ensure(ctx context.Context, name string, now time.Time) (int64, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (name, created_at, last_practice_date, streak_count, best_streak, last_run_at)
		VALUES (?, ?, NULL, 0, 0, NULL)
		ON CONFLICT(name) DO NOTHING
	`, name, sqlite.FormatTime(now))
	if err != nil {
		return 0, common.StorageError("создание профиля", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM profiles WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, common.StorageError("чтение ID профиля", err)
	}
	return id, nil
}

// GetByName возвращает профиль по имени или common.ErrNotFound.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*Profile, error) {
	var (
		p            Profile
		createdAt    string
		lastPractice sql.NullString
		lastRunAt    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, last_practice_date, streak_count, best_streak, last_run_at
		FROM profiles
		WHERE name = ?
	`, name).Scan(&p.ID, &p.Name, &createdAt, &lastPractice, &p.StreakCount, &p.BestStreak, &lastRunAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("профиль не найден (name=%s): %w", name, common.ErrNotFound)
		}
		return nil, common.StorageError(fmt.Sprintf("чтение профиля (name=%s)", name), err)
	}

	if p.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return nil, common.StorageError("чтение профиля", err)
	}
	if p.LastRunAt, err = sqlite.ParseNullTime(lastRunAt); err != nil {
		return nil, common.StorageError("чтение профиля", err)
	}
	p.LastPracticeDate = sqlite.ScanDay(lastPractice)
	return &p, nil
}

// GetForUpdate в SQLite совпадает с GetByName: у базы одно соединение,
// и транзакции и так идут по очереди.
func (r *SQLiteRepository) GetForUpdate(ctx context.Context, name string) (*Profile, error) {
	return r.GetByName(ctx, name)
}

// Update заменяет изменяемые поля профиля по имени.
func (r *SQLiteRepository) Update(ctx context.Context, p *Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET last_practice_date = ?, streak_count = ?, best_streak = ?, last_run_at = ?
		WHERE name = ?
	`, sqlite.NullDay(p.LastPracticeDate), p.StreakCount, p.BestStreak, sqlite.FormatNullTime(p.LastRunAt), p.Name)
	if err != nil {
		return common.StorageError("обновление профиля", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.StorageError("обновление профиля", err)
	}
	if n == 0 {
		return fmt.Errorf("обновление профиля (name=%s): %w", p.Name, common.ErrNotFound)
	}
	return nil
}

// ExpireStreaks обнуляет серии тех, кто не тренировался с дня before.
func (r *SQLiteRepository) ExpireStreaks(ctx context.Context, before string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET streak_count = 0
		WHERE streak_count > 0 AND last_practice_date < ?
	`, before)
	if err != nil {
		return 0, common.StorageError("сброс просроченных стриков", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.StorageError("сброс просроченных стриков", err)
	}
	return n, nil
}
