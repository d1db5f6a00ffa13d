// Package streak управляет ежедневными сериями (стриками) игроков.
// models.go описывает состояние стрика, которое хранится в профиле.
package streak

// State — состояние стрика игрока.
// Инвариант: BestStreak >= StreakCount.
type State struct {
	StreakCount      int     // Текущая серия (дней подряд)
	BestStreak       int     // Личный рекорд
	LastPracticeDate *string // Ключ дня последней тренировки со счётом > 0, nil если не было
}

// LastPracticeKey возвращает ключ дня последней тренировки или пустую строку.
func (s State) LastPracticeKey() string {
	if s.LastPracticeDate == nil {
		return ""
	}
	return *s.LastPracticeDate
}
