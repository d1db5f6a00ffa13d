// Package profiles управляет профилями игроков: создание при первом счёте,
// чтение для клиента и хранение состояния стрика.
// models.go описывает структуру профиля.
package profiles

import (
	"time"

	"serotonyl.ru/brain-trainer/internal/features/streak"
)

// Profile представляет игрока в базе данных.
// Игрок определяется только именем (уже очищенным), авторизации нет.
type Profile struct {
	ID               int64      `db:"id"`                 // Автоинкрементный ID записи
	Name             string     `db:"name"`               // Имя игрока (уникальное, с учётом регистра)
	CreatedAt        time.Time  `db:"created_at"`         // Когда профиль создан
	LastPracticeDate *string    `db:"last_practice_date"` // Ключ дня последней тренировки (2006-01-02) или nil
	StreakCount      int        `db:"streak_count"`       // Текущая серия
	BestStreak       int        `db:"best_streak"`        // Рекорд серии
	LastRunAt        *time.Time `db:"last_run_at"`        // Время последнего забега
}

// StreakState возвращает состояние стрика профиля.
func (p *Profile) StreakState() streak.State {
	return streak.State{
		StreakCount:      p.StreakCount,
		BestStreak:       p.BestStreak,
		LastPracticeDate: p.LastPracticeDate,
	}
}

// ApplyStreak переносит новое состояние стрика в профиль.
func (p *Profile) ApplyStreak(s streak.State) {
	p.StreakCount = s.StreakCount
	p.BestStreak = s.BestStreak
	p.LastPracticeDate = s.LastPracticeDate
}
